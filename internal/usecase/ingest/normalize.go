package ingest

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"farmwatch/internal/domain/violation"
)

// joinParts assembles a description from labeled fragments, skipping absent
// ones, ". "-separated.
func joinParts(parts ...string) string {
	return joinNonEmpty(". ", parts...)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func labeled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

// truncateDescription caps description text at the canonical limit, marking
// the cut with a trailing ellipsis. The limit counts characters, not bytes,
// so the cut never splits a multi-byte rune.
func truncateDescription(s string) string {
	if len(s) <= violation.MaxDescriptionLen {
		return s
	}
	if utf8.RuneCountInString(s) <= violation.MaxDescriptionLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:violation.MaxDescriptionLen-3]) + "..."
}

// parseCurrency reads amounts like "$1,234.56". Unparseable input yields
// absent, never an error.
func parseCurrency(raw string) *float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &amount
}

// parseIntOrZero tolerates the string-typed counters ECHO returns.
func parseIntOrZero(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
