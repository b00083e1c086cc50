// Package report is the stateless query layer over the record snapshot.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/repository"
)

// Service handles aggregate report queries.
type Service struct {
	repo   repository.RecordRepository
	logger *slog.Logger
}

// NewService creates a new report service.
func NewService(repo repository.RecordRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Totals returns count and value sums over the filtered records. Zero
// matching rows yield zero totals, never an error.
func (s *Service) Totals(ctx context.Context, f repository.Filter) (repository.Totals, error) {
	t, err := s.repo.Totals(ctx, f)
	if err != nil {
		return repository.Totals{}, fmt.Errorf("computing totals: %w", err)
	}
	return t, nil
}

// DefaultOrder returns the conventional ordering for a dimension:
// alphabetical for geographic dimensions, descending count for
// organizational ones.
func DefaultOrder(dim repository.Dimension) repository.GroupOrder {
	switch dim {
	case repository.DimDistrict, repository.DimZone:
		return repository.OrderByKey
	}
	return repository.OrderByCountDesc
}

// GroupBy aggregates per distinct value of a dimension with the
// caller-chosen ordering.
func (s *Service) GroupBy(ctx context.Context, dim repository.Dimension, f repository.Filter, order repository.GroupOrder) ([]repository.GroupRow, error) {
	groups, err := s.repo.GroupBy(ctx, dim, f, order)
	if err != nil {
		return nil, fmt.Errorf("grouping by %s: %w", dim, err)
	}
	return groups, nil
}

// TopN returns the n highest-valued records matching the filter.
func (s *Service) TopN(ctx context.Context, f repository.Filter, n int) ([]record.ProjectRecord, error) {
	if n <= 0 {
		return nil, repository.ErrInvalidInput
	}
	recs, err := s.repo.TopN(ctx, f, n)
	if err != nil {
		return nil, fmt.Errorf("ranking records: %w", err)
	}
	return recs, nil
}

// ProblemSubset pages through records with an active problem label,
// no-deadline records last, then ascending deadline, then descending value.
func (s *Service) ProblemSubset(ctx context.Context, f repository.Filter, limit, offset int) ([]record.ProjectRecord, error) {
	recs, err := s.repo.ProblemRecords(ctx, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing problem records: %w", err)
	}
	return recs, nil
}

// List pages through filtered records ordered by total value descending.
func (s *Service) List(ctx context.Context, f repository.Filter, limit, offset int) ([]record.ProjectRecord, error) {
	recs, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return recs, nil
}

// Districts lists distinct district names alphabetically.
func (s *Service) Districts(ctx context.Context) ([]string, error) {
	districts, err := s.repo.Districts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing districts: %w", err)
	}
	return districts, nil
}

// ResponsibleStats aggregates projects per responsible party.
func (s *Service) ResponsibleStats(ctx context.Context, kind repository.ResponsibleKind, limit int) ([]repository.ResponsibleRow, error) {
	stats, err := s.repo.ResponsibleStats(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregating responsibles: %w", err)
	}
	return stats, nil
}

// Page describes one fixed-size slice of a larger result.
type Page struct {
	Index   int
	Size    int
	Total   int
	HasPrev bool
	HasNext bool
}

// Paginate computes slice boundaries and prev/next availability.
func Paginate(total, pageIndex, pageSize int) Page {
	if pageIndex < 0 {
		pageIndex = 0
	}
	return Page{
		Index:   pageIndex,
		Size:    pageSize,
		Total:   total,
		HasPrev: pageIndex > 0,
		HasNext: (pageIndex+1)*pageSize < total,
	}
}
