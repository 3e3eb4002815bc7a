package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/infrastructure/openfda"
)

// Search terms for meat/poultry/livestock products. Queries overlap on
// purpose (a ground-beef recall matches both "beef" and "meat"); the
// per-run seen-set keeps each recall from being normalized twice.
var recallSearchQueries = []string{
	`product_description:"chicken"`,
	`product_description:"beef"`,
	`product_description:"pork"`,
	`product_description:"turkey"`,
	`product_description:"poultry"`,
	`product_description:"meat"`,
	`product_description:"sausage"`,
	`product_description:"ground beef"`,
	`reason_for_recall:"FSIS"`,
	`reason_for_recall:"salmonella"`,
	`reason_for_recall:"E. coli"`,
	`reason_for_recall:"listeria"`,
}

// ingestRecalls walks the fixed query list, paging each query until a short
// page or the per-query cap, and upserts every unseen recall. The seen-set
// is scoped to this call, never process-global.
func (s *Service) ingestRecalls(ctx context.Context) (int, error) {
	if s.fda == nil {
		return 0, errors.New("recall API client is required")
	}

	seen := make(map[string]struct{})
	total := 0

	for _, query := range recallSearchQueries {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		logCtx := logging.WithAttrs(ctx, slog.String("query", query))
		logging.Info(logCtx, "fetching recalls")

		inserted, err := s.ingestRecallQuery(logCtx, query, seen)
		total += inserted
		if err != nil {
			logging.Warn(logCtx, "recall query failed, continuing with next query",
				slog.Any("err", err))
		}

		if err := s.pause(ctx, time.Duration(s.cfg.OpenFDA.QueryPauseMS)*time.Millisecond); err != nil {
			return total, err
		}
	}
	return total, nil
}

// ingestRecallQuery pages one search query inside a single transaction so a
// crash mid-run loses at most this query's uncommitted inserts.
func (s *Service) ingestRecallQuery(ctx context.Context, query string, seen map[string]struct{}) (int, error) {
	inserted := 0

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		skip := 0
		for skip < s.cfg.OpenFDA.MaxPerQuery {
			results, err := s.fda.Search(txCtx, query, openfda.MaxLimit, skip)
			if errors.Is(err, openfda.ErrNotFound) {
				break
			}
			if err != nil {
				// Transient fetch failure: stop paginating this
				// query, keep what was already collected.
				logging.Warn(txCtx, "recall page fetch failed", slog.Int("skip", skip), slog.Any("err", err))
				break
			}
			if len(results) == 0 {
				break
			}

			for _, recall := range results {
				if _, dup := seen[recall.RecallNumber]; dup {
					continue
				}
				seen[recall.RecallNumber] = struct{}{}

				ok, err := s.repo.InsertViolation(txCtx, RecallViolation(recall))
				if err != nil {
					logging.Warn(txCtx, "recall insert failed",
						slog.String("recall_number", recall.RecallNumber), slog.Any("err", err))
					continue
				}
				if ok {
					inserted++
				}
			}

			skip += len(results)
			if len(results) < openfda.MaxLimit {
				break
			}
			if err := s.pause(txCtx, time.Duration(s.cfg.OpenFDA.PagePauseMS)*time.Millisecond); err != nil {
				return err
			}
		}
		return nil
	})
	return inserted, err
}
