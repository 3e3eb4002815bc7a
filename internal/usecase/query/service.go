// Package query is the read-side service over the canonical store. It only
// ever performs lookups, never writes.
package query

import (
	"context"
	"errors"

	"farmwatch/internal/bootstrap/config"
	"farmwatch/internal/ports"
)

type Service struct {
	repo            ports.ViolationReadRepository
	defaultPageSize int
	maxPageSize     int
}

func NewService(repo ports.ViolationReadRepository, cfg config.ServerConfig) *Service {
	defaultSize := cfg.DefaultPageSize
	if defaultSize <= 0 {
		defaultSize = 50
	}
	maxSize := cfg.MaxPageSize
	if maxSize <= 0 {
		maxSize = 500
	}

	return &Service{
		repo:            repo,
		defaultPageSize: defaultSize,
		maxPageSize:     maxSize,
	}
}

type ListInput struct {
	Filter  ports.ViolationFilter
	Page    int // 1-based
	PerPage int
}

type ListResult struct {
	Total   int64
	Page    int
	PerPage int
	Results []ports.StoredViolation
}

func (s *Service) List(ctx context.Context, in ListInput) (ListResult, error) {
	if ctx == nil {
		return ListResult{}, errors.New("context is required")
	}
	if s.repo == nil {
		return ListResult{}, errors.New("violation repository is required")
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if perPage <= 0 {
		perPage = s.defaultPageSize
	}
	if perPage > s.maxPageSize {
		perPage = s.maxPageSize
	}

	items, total, err := s.repo.ListViolations(ctx, in.Filter, (page-1)*perPage, perPage)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Results: items,
	}, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (ports.StoredViolation, error) {
	if ctx == nil {
		return ports.StoredViolation{}, errors.New("context is required")
	}
	if s.repo == nil {
		return ports.StoredViolation{}, errors.New("violation repository is required")
	}
	return s.repo.GetViolation(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (ports.ViolationStats, error) {
	if ctx == nil {
		return ports.ViolationStats{}, errors.New("context is required")
	}
	if s.repo == nil {
		return ports.ViolationStats{}, errors.New("violation repository is required")
	}
	return s.repo.Stats(ctx)
}

func (s *Service) States(ctx context.Context) ([]ports.StateCount, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if s.repo == nil {
		return nil, errors.New("violation repository is required")
	}
	return s.repo.States(ctx)
}
