package query

import (
	"context"
	"testing"

	"farmwatch/internal/bootstrap/config"
	"farmwatch/internal/ports"
)

type fakeReadRepository struct {
	lastOffset int
	lastLimit  int
	items      []ports.StoredViolation
}

func (f *fakeReadRepository) ListViolations(_ context.Context, _ ports.ViolationFilter, offset, limit int) ([]ports.StoredViolation, int64, error) {
	f.lastOffset = offset
	f.lastLimit = limit
	return f.items, int64(len(f.items)), nil
}

func (f *fakeReadRepository) GetViolation(_ context.Context, id uint64) (ports.StoredViolation, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return ports.StoredViolation{}, ports.ErrViolationNotFound
}

func (f *fakeReadRepository) Stats(context.Context) (ports.ViolationStats, error) {
	return ports.ViolationStats{Total: int64(len(f.items))}, nil
}

func (f *fakeReadRepository) States(context.Context) ([]ports.StateCount, error) {
	return nil, nil
}

func TestListPagingDefaultsAndClamping(t *testing.T) {
	repo := &fakeReadRepository{}
	svc := NewService(repo, config.ServerConfig{DefaultPageSize: 50, MaxPageSize: 500})
	ctx := context.Background()

	result, err := svc.List(ctx, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Page != 1 || result.PerPage != 50 {
		t.Fatalf("defaults = page %d per_page %d", result.Page, result.PerPage)
	}
	if repo.lastOffset != 0 || repo.lastLimit != 50 {
		t.Fatalf("repo called with offset %d limit %d", repo.lastOffset, repo.lastLimit)
	}

	if _, err := svc.List(ctx, ListInput{Page: 3, PerPage: 20}); err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if repo.lastOffset != 40 || repo.lastLimit != 20 {
		t.Fatalf("page 3 -> offset %d limit %d, want 40/20", repo.lastOffset, repo.lastLimit)
	}

	if _, err := svc.List(ctx, ListInput{PerPage: 9999}); err != nil {
		t.Fatalf("list oversized page: %v", err)
	}
	if repo.lastLimit != 500 {
		t.Fatalf("per_page must clamp to 500, got %d", repo.lastLimit)
	}
}

func TestGetPassesThroughNotFound(t *testing.T) {
	svc := NewService(&fakeReadRepository{}, config.ServerConfig{})

	if _, err := svc.Get(context.Background(), 42); err != ports.ErrViolationNotFound {
		t.Fatalf("err = %v, want ErrViolationNotFound", err)
	}
}
