package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"farmwatch/internal/bootstrap/config"
	"farmwatch/internal/infrastructure/echoapi"
	"farmwatch/internal/infrastructure/openfda"
	"farmwatch/internal/infrastructure/persistence/sqlite/model"
	"farmwatch/internal/infrastructure/persistence/sqlite/repository"
	"farmwatch/internal/infrastructure/persistence/sqlite/uow"
)

type stubFacilityAPI struct {
	facilities func(ctx context.Context, sic string) (echoapi.Results, error)
	page       func(ctx context.Context, queryID string, page, pageSize int) (echoapi.Results, error)

	facilityCalls int
	pageCalls     int
}

func (s *stubFacilityAPI) GetFacilities(ctx context.Context, sic string) (echoapi.Results, error) {
	s.facilityCalls++
	if s.facilities == nil {
		return echoapi.Results{}, nil
	}
	return s.facilities(ctx, sic)
}

func (s *stubFacilityAPI) GetQueryPage(ctx context.Context, queryID string, page, pageSize int) (echoapi.Results, error) {
	s.pageCalls++
	if s.page == nil {
		return echoapi.Results{}, nil
	}
	return s.page(ctx, queryID, page, pageSize)
}

type stubRecallAPI struct {
	search func(ctx context.Context, query string, limit, skip int) ([]openfda.Enforcement, error)

	calls []int // skip offsets, in request order
}

func (s *stubRecallAPI) Search(ctx context.Context, query string, limit, skip int) ([]openfda.Enforcement, error) {
	s.calls = append(s.calls, skip)
	if s.search == nil {
		return nil, openfda.ErrNotFound
	}
	return s.search(ctx, query, limit, skip)
}

func testSourcesConfig() config.SourcesConfig {
	return config.SourcesConfig{
		OpenFDA: config.OpenFDAConfig{MaxPerQuery: 100},
		Echo: config.EchoConfig{
			MaxPerSIC:    100,
			PollAttempts: 12,
			PageAttempts: 6,
			PollWaitS:    5,
			BudgetS:      90,
		},
	}
}

func setupService(t *testing.T, echo FacilityAPI, fda RecallAPI, cfg config.SourcesConfig) (*Service, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "violations.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Violation{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	svc := NewService(repository.NewViolationRepository(db), uow.NewUnitOfWork(db), echo, fda, cfg)
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	}
	return svc, db
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Violation{}).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func TestRunIdempotence(t *testing.T) {
	recall := stubEnforcement("F-100-2023")
	fda := &stubRecallAPI{
		search: func(_ context.Context, query string, _, skip int) ([]openfda.Enforcement, error) {
			if query == recallSearchQueries[0] && skip == 0 {
				return []openfda.Enforcement{recall}, nil
			}
			return nil, openfda.ErrNotFound
		},
	}
	echo := &stubFacilityAPI{
		facilities: func(_ context.Context, sic string) (echoapi.Results, error) {
			if sic != "0211" {
				return echoapi.Results{}, nil
			}
			return echoapi.Results{QueryID: "QID1", QueryRows: "1"}, nil
		},
		page: func(_ context.Context, _ string, _, _ int) (echoapi.Results, error) {
			return echoapi.Results{Facilities: []echoapi.Facility{{
				CWPName:       "Feedlot One",
				SourceID:      "UT100",
				CWPQtrsWithNC: "3",
			}}}, nil
		},
	}

	svc, db := setupService(t, echo, fda, testSourcesConfig())
	ctx := context.Background()

	first, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Total == 0 {
		t.Fatal("first run inserted nothing")
	}
	rowsAfterFirst := countRows(t, db)

	second, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Total != 0 {
		t.Fatalf("second identical run inserted %d new rows", second.Total)
	}
	if rows := countRows(t, db); rows != rowsAfterFirst {
		t.Fatalf("row count changed across identical runs: %d -> %d", rowsAfterFirst, rows)
	}
}

func TestRunSurvivesNetworkFailures(t *testing.T) {
	boom := errors.New("connection refused")
	fda := &stubRecallAPI{
		search: func(context.Context, string, int, int) ([]openfda.Enforcement, error) {
			return nil, boom
		},
	}
	echo := &stubFacilityAPI{
		facilities: func(context.Context, string) (echoapi.Results, error) {
			return echoapi.Results{}, boom
		},
	}

	svc, db := setupService(t, echo, fda, testSourcesConfig())

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run must complete despite network failures: %v", err)
	}
	if result.Seeded == 0 {
		t.Fatal("seed data must establish a nonzero floor")
	}
	if result.Recalls != 0 || result.Facilities != 0 {
		t.Fatalf("failed sources must report zero, got recalls=%d facilities=%d", result.Recalls, result.Facilities)
	}
	if rows := countRows(t, db); rows != int64(result.Seeded) {
		t.Fatalf("stored %d rows, reported %d", rows, result.Seeded)
	}
}

func TestRunEchoBudgetKeepsPartialResults(t *testing.T) {
	// The facility fetcher sees an already-expired budget; the run keeps
	// what the earlier sources committed.
	fda := &stubRecallAPI{
		search: func(_ context.Context, query string, _, skip int) ([]openfda.Enforcement, error) {
			if query == recallSearchQueries[0] && skip == 0 {
				return []openfda.Enforcement{stubEnforcement("F-200-2023")}, nil
			}
			return nil, openfda.ErrNotFound
		},
	}
	echo := &stubFacilityAPI{}

	cfg := testSourcesConfig()
	cfg.Echo.BudgetS = 0

	svc, db := setupService(t, echo, fda, cfg)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Recalls != 1 {
		t.Fatalf("recalls = %d, want 1", result.Recalls)
	}
	if result.Facilities != 0 {
		t.Fatalf("facilities = %d, want 0 under expired budget", result.Facilities)
	}
	if rows := countRows(t, db); rows != int64(result.Total) {
		t.Fatalf("stored %d rows, reported %d", rows, result.Total)
	}
}
