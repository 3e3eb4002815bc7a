package ingest

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"farmwatch/internal/infrastructure/echoapi"
)

func TestFetchFacilitiesPollBounding(t *testing.T) {
	echo := &stubFacilityAPI{
		facilities: func(context.Context, string) (echoapi.Results, error) {
			return echoapi.Results{Message: echoapi.StatusWorking}, nil
		},
	}

	svc, _ := setupService(t, echo, &stubRecallAPI{}, testSourcesConfig())

	facilities := svc.fetchFacilitiesForSIC(context.Background(), "0211")
	if facilities != nil {
		t.Fatalf("always-Working query must yield zero facilities, got %d", len(facilities))
	}
	// One submit plus exactly the bounded number of poll re-issues.
	if want := 1 + svc.cfg.Echo.PollAttempts; echo.facilityCalls != want {
		t.Fatalf("facility calls = %d, want %d", echo.facilityCalls, want)
	}
	if echo.pageCalls != 0 {
		t.Fatalf("no pages must be fetched for an unmaterialized query, got %d", echo.pageCalls)
	}
}

func TestFetchFacilitiesPageRetryBound(t *testing.T) {
	echo := &stubFacilityAPI{
		facilities: func(context.Context, string) (echoapi.Results, error) {
			return echoapi.Results{QueryID: "QID9", QueryRows: "50"}, nil
		},
		page: func(context.Context, string, int, int) (echoapi.Results, error) {
			return echoapi.Results{Message: echoapi.StatusWorking}, nil
		},
	}

	svc, _ := setupService(t, echo, &stubRecallAPI{}, testSourcesConfig())

	facilities := svc.fetchFacilitiesForSIC(context.Background(), "0211")
	if len(facilities) != 0 {
		t.Fatalf("always-Working page must yield zero facilities, got %d", len(facilities))
	}
	if echo.pageCalls != svc.cfg.Echo.PageAttempts {
		t.Fatalf("page calls = %d, want %d", echo.pageCalls, svc.cfg.Echo.PageAttempts)
	}
}

func TestFetchFacilitiesPagesAndCap(t *testing.T) {
	cfg := testSourcesConfig()
	cfg.Echo.MaxPerSIC = 150

	echo := &stubFacilityAPI{
		facilities: func(context.Context, string) (echoapi.Results, error) {
			return echoapi.Results{QueryID: "QID1", QueryRows: "400"}, nil
		},
		page: func(_ context.Context, _ string, page, pageSize int) (echoapi.Results, error) {
			out := make([]echoapi.Facility, pageSize)
			for i := range out {
				out[i] = echoapi.Facility{
					CWPName:       "Facility",
					SourceID:      "P" + strconv.Itoa(page) + "-" + strconv.Itoa(i),
					CWPQtrsWithNC: "1",
				}
			}
			return echoapi.Results{Facilities: out}, nil
		},
	}

	svc, _ := setupService(t, echo, &stubRecallAPI{}, cfg)

	facilities := svc.fetchFacilitiesForSIC(context.Background(), "0213")
	// 400 rows, cap 150 -> 2 pages of 100, trimmed to the cap.
	if echo.pageCalls != 2 {
		t.Fatalf("page calls = %d, want 2", echo.pageCalls)
	}
	if len(facilities) != 150 {
		t.Fatalf("facilities = %d, want capped 150", len(facilities))
	}
}

func TestFetchFacilitiesTransportErrorIsNotFatal(t *testing.T) {
	echo := &stubFacilityAPI{
		facilities: func(context.Context, string) (echoapi.Results, error) {
			return echoapi.Results{}, errors.New("gateway timeout")
		},
	}

	svc, _ := setupService(t, echo, &stubRecallAPI{}, testSourcesConfig())

	if got := svc.fetchFacilitiesForSIC(context.Background(), "0251"); got != nil {
		t.Fatalf("transport failure must yield zero results, got %d", len(got))
	}
}

func TestIngestFacilitiesDeadlineReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	categoriesServed := 0
	echo := &stubFacilityAPI{
		facilities: func(context.Context, string) (echoapi.Results, error) {
			categoriesServed++
			if categoriesServed == 2 {
				// Budget expires mid-run.
				cancel()
			}
			return echoapi.Results{QueryID: "Q", QueryRows: "1"}, nil
		},
		page: func(_ context.Context, _ string, _, _ int) (echoapi.Results, error) {
			return echoapi.Results{Facilities: []echoapi.Facility{{
				CWPName:       "Partial Farms",
				SourceID:      "CAT" + strconv.Itoa(categoriesServed),
				CWPQtrsWithNC: "1",
			}}}, nil
		},
	}

	svc, db := setupService(t, echo, &stubRecallAPI{}, testSourcesConfig())

	total, err := svc.ingestFacilities(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if total != 1 {
		t.Fatalf("committed total = %d, want the first category's single row", total)
	}
	if rows := countRows(t, db); rows != 1 {
		t.Fatalf("stored rows = %d, want 1", rows)
	}
}
