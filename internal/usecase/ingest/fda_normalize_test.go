package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"farmwatch/internal/domain/violation"
	"farmwatch/internal/infrastructure/openfda"
)

func stubEnforcement(recallNumber string) openfda.Enforcement {
	return openfda.Enforcement{
		RecallingFirm:        "Test Packing Co",
		City:                 "Greeley",
		State:                "CO",
		Classification:       "Class II",
		ReasonForRecall:      "Possible Listeria contamination",
		ProductDescription:   "Ready-to-eat sausage",
		ProductQuantity:      "1,200 lbs",
		RecallNumber:         recallNumber,
		RecallInitiationDate: "20230615",
		DistributionPattern:  "CO, WY, NE",
		VoluntaryMandated:    "Voluntary: Firm Initiated",
	}
}

func TestRecallSeverity(t *testing.T) {
	cases := []struct {
		classification string
		want           violation.Severity
	}{
		{"Class I", violation.SeverityHigh},
		{"Class II", violation.SeverityMedium},
		{"Class III", violation.SeverityLow},
		{"Class IV", violation.SeverityMedium},
		{"", violation.SeverityMedium},
	}
	for _, tc := range cases {
		if got := recallSeverity(tc.classification); got != tc.want {
			t.Fatalf("recallSeverity(%q) = %q, want %q", tc.classification, got, tc.want)
		}
	}
}

func TestRecallDate(t *testing.T) {
	if got := recallDate("20230615"); got == nil || *got != "2023-06-15" {
		t.Fatalf("recallDate(20230615) = %v, want 2023-06-15", got)
	}
	if got := recallDate("202306"); got != nil {
		t.Fatalf("wrong-length date must be absent, got %q", *got)
	}
	if got := recallDate(""); got != nil {
		t.Fatalf("empty date must be absent, got %q", *got)
	}
}

func TestRecallState(t *testing.T) {
	if got := recallState("CO"); got == nil || *got != "CO" {
		t.Fatalf("recallState(CO) = %v", got)
	}
	if got := recallState("Colorado"); got != nil {
		t.Fatalf("free-text state must be dropped, got %q", *got)
	}
}

func TestRecallViolationFields(t *testing.T) {
	rec := RecallViolation(stubEnforcement("F-1234-2023"))

	if rec.Source != violation.SourceFSIS {
		t.Fatalf("source = %q", rec.Source)
	}
	if rec.SourceID == nil || *rec.SourceID != "FDA-F-1234-2023" {
		t.Fatalf("source_id = %v", rec.SourceID)
	}
	if rec.Severity == nil || *rec.Severity != violation.SeverityMedium {
		t.Fatalf("severity = %v, want Medium for Class II", rec.Severity)
	}
	if rec.Date == nil || *rec.Date != "2023-06-15" {
		t.Fatalf("date = %v", rec.Date)
	}
	if rec.Location == nil || *rec.Location != "Greeley, CO" {
		t.Fatalf("location = %v", rec.Location)
	}
	if rec.PenaltyAmount != nil {
		t.Fatalf("recalls carry no penalty amount, got %v", rec.PenaltyAmount)
	}
	if rec.Description == nil {
		t.Fatal("description missing")
	}
	for _, want := range []string{
		"Product: Ready-to-eat sausage",
		"Reason: Possible Listeria contamination",
		"Quantity: 1,200 lbs",
		"Distribution: CO, WY, NE",
		"Type: Voluntary: Firm Initiated",
		"Classification: Class II",
	} {
		if !strings.Contains(*rec.Description, want) {
			t.Fatalf("description %q missing part %q", *rec.Description, want)
		}
	}
}

func TestRecallViolationEmptyFirm(t *testing.T) {
	recall := stubEnforcement("F-1")
	recall.RecallingFirm = ""
	rec := RecallViolation(recall)
	if rec.FacilityName != "Unknown" {
		t.Fatalf("facility_name = %q, want Unknown", rec.FacilityName)
	}
}

func TestDescriptionTruncation(t *testing.T) {
	recall := stubEnforcement("F-2")
	recall.ProductDescription = strings.Repeat("x", 3000)

	rec := RecallViolation(recall)
	if rec.Description == nil {
		t.Fatal("description missing")
	}
	if len(*rec.Description) != violation.MaxDescriptionLen {
		t.Fatalf("description length = %d, want %d", len(*rec.Description), violation.MaxDescriptionLen)
	}
	if !strings.HasSuffix(*rec.Description, "...") {
		t.Fatal("truncated description must end with ellipsis")
	}
}

func TestDescriptionTruncationMultiByte(t *testing.T) {
	recall := stubEnforcement("F-3")
	recall.ProductDescription = strings.Repeat("é", 3000)

	rec := RecallViolation(recall)
	if rec.Description == nil {
		t.Fatal("description missing")
	}
	desc := *rec.Description
	if !utf8.ValidString(desc) {
		t.Fatal("truncated description must remain valid UTF-8")
	}
	if got := utf8.RuneCountInString(desc); got != violation.MaxDescriptionLen {
		t.Fatalf("description rune count = %d, want %d", got, violation.MaxDescriptionLen)
	}
	if !strings.HasSuffix(desc, "é...") {
		t.Fatal("cut must land on a rune boundary before the ellipsis")
	}
}
