package ingest

import (
	"context"
	"log/slog"

	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/errs"
)

// LoadSeed inserts the curated baseline records through the same upsert
// contract as the network fetchers, in one transaction. It involves no
// network or parsing, so it establishes a nonzero floor even when every
// network source fails.
func (s *Service) LoadSeed(ctx context.Context) (int, error) {
	inserted := 0

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, rec := range seedRecords() {
			ok, err := s.repo.InsertViolation(txCtx, rec)
			if err != nil {
				return errs.Wrapf(err, "insert seed record %q", rec.FacilityName)
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.Info(ctx, "seed records upserted", slog.Int("inserted", inserted))
	return inserted, nil
}
