package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/repository"
)

// RecordRepository is a mock for repository.RecordRepository.
type RecordRepository struct {
	mock.Mock
}

func (m *RecordRepository) ReplaceAll(ctx context.Context, recs []record.ProjectRecord) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}

func (m *RecordRepository) Totals(ctx context.Context, f repository.Filter) (repository.Totals, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(repository.Totals), args.Error(1)
}

func (m *RecordRepository) GroupBy(ctx context.Context, dim repository.Dimension, f repository.Filter, order repository.GroupOrder) ([]repository.GroupRow, error) {
	args := m.Called(ctx, dim, f, order)
	if rows, ok := args.Get(0).([]repository.GroupRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordRepository) TopN(ctx context.Context, f repository.Filter, n int) ([]record.ProjectRecord, error) {
	args := m.Called(ctx, f, n)
	if recs, ok := args.Get(0).([]record.ProjectRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordRepository) List(ctx context.Context, f repository.Filter, limit, offset int) ([]record.ProjectRecord, error) {
	args := m.Called(ctx, f, limit, offset)
	if recs, ok := args.Get(0).([]record.ProjectRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordRepository) ProblemRecords(ctx context.Context, f repository.Filter, limit, offset int) ([]record.ProjectRecord, error) {
	args := m.Called(ctx, f, limit, offset)
	if recs, ok := args.Get(0).([]record.ProjectRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordRepository) Districts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordRepository) ResponsibleStats(ctx context.Context, kind repository.ResponsibleKind, limit int) ([]repository.ResponsibleRow, error) {
	args := m.Called(ctx, kind, limit)
	if rows, ok := args.Get(0).([]repository.ResponsibleRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

// Source is a mock for ingest.Source.
type Source struct {
	mock.Mock
}

func (m *Source) Fetch(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if rows, ok := args.Get(0).([][]string); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}
