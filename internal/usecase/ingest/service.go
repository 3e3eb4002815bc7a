// Package ingest implements the ingestion pipeline: seed loader first, then
// the openFDA recall fetcher, then the EPA ECHO facility fetcher, strictly
// in that order on a single thread of control. Each network source is
// failure-isolated; the run always completes and reports a total count.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"farmwatch/internal/bootstrap/config"
	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/errs"
	"farmwatch/internal/infrastructure/echoapi"
	"farmwatch/internal/infrastructure/openfda"
	"farmwatch/internal/ports"
)

// FacilityAPI is the slice of the ECHO client the fetcher needs.
type FacilityAPI interface {
	GetFacilities(ctx context.Context, sicCode string) (echoapi.Results, error)
	GetQueryPage(ctx context.Context, queryID string, page, pageSize int) (echoapi.Results, error)
}

// RecallAPI is the slice of the openFDA client the fetcher needs.
type RecallAPI interface {
	Search(ctx context.Context, query string, limit, skip int) ([]openfda.Enforcement, error)
}

type Service struct {
	repo ports.ViolationRepository
	uow  ports.UnitOfWork
	echo FacilityAPI
	fda  RecallAPI
	cfg  config.SourcesConfig

	// sleep is injected so tests drive the retry/pause loops without
	// real waiting. It must honor ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewService(repo ports.ViolationRepository, uow ports.UnitOfWork, echo FacilityAPI, fda RecallAPI, cfg config.SourcesConfig) *Service {
	return &Service{
		repo:  repo,
		uow:   uow,
		echo:  echo,
		fda:   fda,
		cfg:   cfg,
		sleep: sleepCtx,
	}
}

type RunResult struct {
	RunID      string
	Seeded     int
	Recalls    int
	Facilities int
	Total      int
}

// Run executes the full pipeline. Network-source failures (including the
// ECHO wall-clock budget expiring) are logged as warnings and never abort
// the run; whatever was committed before the failure is kept.
func (s *Service) Run(ctx context.Context) (RunResult, error) {
	if ctx == nil {
		return RunResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return RunResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil || s.uow == nil {
		return RunResult{}, errors.New("violation repository and unit of work are required")
	}

	out := RunResult{RunID: uuid.NewString()}
	ctx = logging.WithAttrs(ctx, slog.String("component", "ingest"), slog.String("run_id", out.RunID))

	seeded, err := s.LoadSeed(ctx)
	if err != nil {
		return out, errs.Wrap(err, "load seed data")
	}
	out.Seeded = seeded
	logging.Info(ctx, "seed data loaded", slog.Int("inserted", seeded))

	recalls, err := s.ingestRecalls(ctx)
	out.Recalls = recalls
	if err != nil {
		logging.Warn(ctx, "recall ingestion failed, keeping partial results",
			slog.Int("inserted", recalls), slog.Any("err", errs.Loggable(err)))
	} else {
		logging.Info(ctx, "recall ingestion completed", slog.Int("inserted", recalls))
	}

	// ECHO is slow and flaky; bound it by an overall wall-clock budget
	// independent of its internal per-attempt retry bounds.
	budget := time.Duration(s.cfg.Echo.BudgetS) * time.Second
	echoCtx, cancel := context.WithTimeout(ctx, budget)
	facilities, err := s.ingestFacilities(echoCtx)
	cancel()
	out.Facilities = facilities
	if err != nil {
		logging.Warn(ctx, "facility ingestion failed, keeping partial results",
			slog.Int("inserted", facilities), slog.Any("err", errs.Loggable(err)))
	} else {
		logging.Info(ctx, "facility ingestion completed", slog.Int("inserted", facilities))
	}

	out.Total = out.Seeded + out.Recalls + out.Facilities
	logging.Info(ctx, "ingestion run completed",
		slog.Int("seeded", out.Seeded),
		slog.Int("recalls", out.Recalls),
		slog.Int("facilities", out.Facilities),
		slog.Int("total", out.Total),
	)
	return out, nil
}

// pause blocks for d or until ctx is done, whichever comes first.
func (s *Service) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return s.sleep(ctx, d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
