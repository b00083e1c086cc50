package deadline

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/repository"
	"github.com/shuhratov/loyihabot/internal/repository/mocks"
)

func dayPtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestComputeBuckets(t *testing.T) {
	today := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	recs := []record.ProjectRecord{
		{Problem: "p", OrgResponsible: "Karimov", Deadline: dayPtr("2025-01-09")},
		{Problem: "p", OrgResponsible: "Karimov", Deadline: dayPtr("2025-01-10")},
		{Problem: "p", OrgResponsible: "Rasulov", Deadline: dayPtr("2025-01-13")},
		{Problem: "p", OrgResponsible: "Rasulov", Deadline: dayPtr("2025-02-14")},
		{Problem: "p", OrgResponsible: "Toirov"},
	}

	stats := Compute(recs, today)
	require.Equal(t, 5, stats.TotalProblems)
	require.Equal(t, 1, stats.Expired)
	require.Equal(t, 2, stats.Urgent)
	require.Equal(t, 1, stats.Upcoming)
	require.Equal(t, 1, stats.Unset)
	require.Equal(t, 1, stats.OldestOverdueDays)
	require.True(t, stats.HasNearest)
	require.Equal(t, 0, stats.DaysToNearest)
}

func TestComputeMonthHistogram(t *testing.T) {
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []record.ProjectRecord{
		{Problem: "p", Deadline: dayPtr("2025-03-01")},
		{Problem: "p", Deadline: dayPtr("2025-03-15")},
		{Problem: "p", Deadline: dayPtr("2025-01-20")},
		{Problem: "p"},
	}

	stats := Compute(recs, today)
	require.Equal(t, []MonthCount{
		{Month: time.January, Count: 1},
		{Month: time.March, Count: 2},
	}, stats.MonthHistogram)
}

func TestComputeTopResponsible(t *testing.T) {
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var recs []record.ProjectRecord
	names := []string{"a", "a", "a", "b", "b", "c", "d", "e", "f", "g"}
	for _, n := range names {
		recs = append(recs, record.ProjectRecord{Problem: "p", OrgResponsible: n})
	}

	stats := Compute(recs, today)
	require.Len(t, stats.TopResponsible, TopResponsibleLimit)
	require.Equal(t, ResponsibleCount{Name: "a", Count: 3}, stats.TopResponsible[0])
	require.Equal(t, ResponsibleCount{Name: "b", Count: 2}, stats.TopResponsible[1])
	// Equal counts rank alphabetically.
	require.Equal(t, "c", stats.TopResponsible[2].Name)
}

func TestComputeEmpty(t *testing.T) {
	stats := Compute(nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Zero(t, stats.TotalProblems)
	require.False(t, stats.HasNearest)
	require.Empty(t, stats.MonthHistogram)
	require.Empty(t, stats.TopResponsible)
}

func TestAnalyzeLoadsProblemSubset(t *testing.T) {
	repo := new(mocks.RecordRepository)
	today := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	repo.On("ProblemRecords", mock.Anything, repository.Filter{OnlyProblems: true}, 0, 0).
		Return([]record.ProjectRecord{{Problem: "p", Deadline: dayPtr("2025-01-09")}}, nil)

	svc := NewService(repo, testLogger())
	stats, err := svc.Analyze(context.Background(), today)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Expired)
	repo.AssertExpectations(t)
}

func TestAnalyzeRepositoryError(t *testing.T) {
	repo := new(mocks.RecordRepository)
	repo.On("ProblemRecords", mock.Anything, mock.Anything, 0, 0).
		Return(nil, errors.New("db gone"))

	svc := NewService(repo, testLogger())
	_, err := svc.Analyze(context.Background(), time.Now())
	require.Error(t, err)
}
