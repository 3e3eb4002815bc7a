package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/infrastructure/echoapi"
)

const echoTransportRetryWait = 3 * time.Second

// ingestFacilities runs the submit/poll/paginate protocol for each SIC
// category in turn. The caller bounds ctx with the overall wall-clock
// budget; every retry boundary checks it, so expiry yields whatever was
// committed so far.
func (s *Service) ingestFacilities(ctx context.Context) (int, error) {
	if s.echo == nil {
		return 0, errors.New("facility API client is required")
	}

	total := 0
	for _, sic := range cafoSICCodes {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		logCtx := logging.WithAttrs(ctx,
			slog.String("sic", sic),
			slog.String("sic_name", sicNames[sic]),
		)

		facilities := s.fetchFacilitiesForSIC(logCtx, sic)

		inserted, err := s.storeFacilities(logCtx, facilities, sic)
		total += inserted
		if err != nil {
			logging.Warn(logCtx, "facility batch commit failed, continuing with next category",
				slog.Any("err", err))
		} else {
			logging.Info(logCtx, "facility batch committed",
				slog.Int("fetched", len(facilities)), slog.Int("inserted", inserted), slog.Int("total", total))
		}

		if err := s.pause(ctx, time.Second); err != nil {
			return total, err
		}
	}
	return total, nil
}

// storeFacilities normalizes and upserts one category's facilities inside a
// single transaction.
func (s *Service) storeFacilities(ctx context.Context, facilities []echoapi.Facility, sic string) (int, error) {
	if len(facilities) == 0 {
		return 0, nil
	}

	inserted := 0
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, facility := range facilities {
			rec := FacilityViolation(facility, sic)
			if rec == nil {
				continue
			}
			ok, err := s.repo.InsertViolation(txCtx, *rec)
			if err != nil {
				logging.Warn(txCtx, "facility insert failed",
					slog.String("source_id", facility.SourceID), slog.Any("err", err))
				continue
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	return inserted, err
}

// fetchFacilitiesForSIC drives one category through the ECHO state machine:
//
//  1. submit the initiating query;
//  2. while the server answers "Working", re-issue the same query at a
//     fixed interval, up to the poll bound; exceeding it means zero
//     results for this category;
//  3. page the materialized result set by job id, each page retried up to
//     the page bound when it is itself still "Working".
//
// Transport failures never propagate; they shrink this category's results.
func (s *Service) fetchFacilitiesForSIC(ctx context.Context, sic string) []echoapi.Facility {
	results, err := s.echo.GetFacilities(ctx, sic)
	if err != nil {
		logging.Warn(ctx, "initial facility query failed", slog.Any("err", err))
		return nil
	}

	pollWait := time.Duration(s.cfg.Echo.PollWaitS) * time.Second

	for attempt := 1; results.Working() && attempt <= s.cfg.Echo.PollAttempts; attempt++ {
		logging.Info(ctx, "query still processing server-side",
			slog.Int("attempt", attempt), slog.Int("max_attempts", s.cfg.Echo.PollAttempts))
		if err := s.pause(ctx, pollWait); err != nil {
			return nil
		}

		next, err := s.echo.GetFacilities(ctx, sic)
		if err != nil {
			logging.Warn(ctx, "poll attempt failed", slog.Int("attempt", attempt), slog.Any("err", err))
			continue
		}
		results = next
	}
	if results.Working() {
		logging.Warn(ctx, "query never finished within poll bound, skipping category")
		return nil
	}

	totalRows := results.Rows()
	queryID := results.QueryID
	if totalRows == 0 || queryID == "" {
		logging.Info(ctx, "no facilities found for category")
		return nil
	}

	maxRows := s.cfg.Echo.MaxPerSIC
	if totalRows < maxRows {
		maxRows = totalRows
	}
	pages := (maxRows + echoapi.PageSize - 1) / echoapi.PageSize

	logging.Info(ctx, "facility query materialized",
		slog.String("query_id", queryID), slog.Int("total_rows", totalRows), slog.Int("pages", pages))

	var facilities []echoapi.Facility

	for page := 1; page <= pages; page++ {
		for attempt := 1; attempt <= s.cfg.Echo.PageAttempts; attempt++ {
			if ctx.Err() != nil {
				return capFacilities(facilities, s.cfg.Echo.MaxPerSIC)
			}

			pageResults, err := s.echo.GetQueryPage(ctx, queryID, page, echoapi.PageSize)
			if err != nil {
				logging.Warn(ctx, "page fetch failed",
					slog.Int("page", page), slog.Int("attempt", attempt), slog.Any("err", err))
				if err := s.pause(ctx, echoTransportRetryWait); err != nil {
					return capFacilities(facilities, s.cfg.Echo.MaxPerSIC)
				}
				continue
			}
			if pageResults.Working() {
				logging.Info(ctx, "page still processing",
					slog.Int("page", page), slog.Int("attempt", attempt), slog.Int("max_attempts", s.cfg.Echo.PageAttempts))
				if err := s.pause(ctx, pollWait); err != nil {
					return capFacilities(facilities, s.cfg.Echo.MaxPerSIC)
				}
				continue
			}

			facilities = append(facilities, pageResults.Facilities...)
			break
		}

		if err := s.pause(ctx, time.Second); err != nil {
			break
		}
	}

	return capFacilities(facilities, s.cfg.Echo.MaxPerSIC)
}

func capFacilities(facilities []echoapi.Facility, max int) []echoapi.Facility {
	if max > 0 && len(facilities) > max {
		return facilities[:max]
	}
	return facilities
}
