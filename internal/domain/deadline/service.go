// Package deadline computes deadline-risk analytics over the problem subset.
package deadline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/repository"
)

// TopResponsibleLimit bounds the responsible-party ranking.
const TopResponsibleLimit = 5

// MonthCount is one monthly histogram bar.
type MonthCount struct {
	Month time.Month
	Count int
}

// ResponsibleCount ranks one responsible party by problem count.
type ResponsibleCount struct {
	Name  string
	Count int
}

// Stats summarizes problem deadlines relative to a reference day.
type Stats struct {
	Today         time.Time
	TotalProblems int
	Expired       int
	Urgent        int
	Upcoming      int
	Unset         int

	// OldestOverdueDays is the age in days of the most overdue record,
	// zero when nothing is expired.
	OldestOverdueDays int
	// DaysToNearest is the span to the closest non-expired deadline,
	// zero when none exists.
	DaysToNearest  int
	HasNearest     bool
	MonthHistogram []MonthCount
	TopResponsible []ResponsibleCount
}

// Service analyzes problem deadlines. "today" is caller-supplied for
// testability.
type Service struct {
	repo   repository.RecordRepository
	logger *slog.Logger
}

// NewService creates a new deadline service.
func NewService(repo repository.RecordRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Analyze classifies the current problem subset against today and computes
// the summary statistics.
func (s *Service) Analyze(ctx context.Context, today time.Time) (Stats, error) {
	recs, err := s.repo.ProblemRecords(ctx, repository.Filter{OnlyProblems: true}, 0, 0)
	if err != nil {
		return Stats{}, fmt.Errorf("loading problem subset: %w", err)
	}
	return Compute(recs, today), nil
}

// Compute derives deadline statistics from an already-loaded problem subset.
func Compute(recs []record.ProjectRecord, today time.Time) Stats {
	stats := Stats{Today: today, TotalProblems: len(recs)}

	months := map[time.Month]int{}
	responsible := map[string]int{}
	nearestSet := false
	var nearest, oldest int

	for _, rec := range recs {
		if rec.OrgResponsible != "" {
			responsible[rec.OrgResponsible]++
		}

		switch rec.DeadlineBucketOn(today) {
		case record.DeadlineExpired:
			stats.Expired++
		case record.DeadlineUrgent:
			stats.Urgent++
		case record.DeadlineUpcoming:
			stats.Upcoming++
		default:
			stats.Unset++
			continue
		}

		months[rec.Deadline.Month()]++

		days, _ := rec.DaysUntilDeadline(today)
		if days < 0 && -days > oldest {
			oldest = -days
		}
		if days >= 0 && (!nearestSet || days < nearest) {
			nearest = days
			nearestSet = true
		}
	}

	stats.OldestOverdueDays = oldest
	stats.DaysToNearest = nearest
	stats.HasNearest = nearestSet

	for m := time.January; m <= time.December; m++ {
		if months[m] > 0 {
			stats.MonthHistogram = append(stats.MonthHistogram, MonthCount{Month: m, Count: months[m]})
		}
	}

	for name, count := range responsible {
		stats.TopResponsible = append(stats.TopResponsible, ResponsibleCount{Name: name, Count: count})
	}
	sort.Slice(stats.TopResponsible, func(i, j int) bool {
		if stats.TopResponsible[i].Count != stats.TopResponsible[j].Count {
			return stats.TopResponsible[i].Count > stats.TopResponsible[j].Count
		}
		return stats.TopResponsible[i].Name < stats.TopResponsible[j].Name
	})
	if len(stats.TopResponsible) > TopResponsibleLimit {
		stats.TopResponsible = stats.TopResponsible[:TopResponsibleLimit]
	}

	return stats
}
