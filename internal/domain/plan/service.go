package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shuhratov/loyihabot/internal/repository"
)

const minTextLen = 3

// dueDateLayouts are accepted in the "text | due date" input suffix.
var dueDateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006", "02-01-2006"}

// Repository is the persistence surface the service needs.
type Repository interface {
	Add(ctx context.Context, p *Plan) error
	Get(ctx context.Context, id int64) (*Plan, error)
	ListDay(ctx context.Context, userID int64, day string) ([]Plan, error)
	ListDayAll(ctx context.Context, day string) ([]Plan, error)
	Upcoming(ctx context.Context, userID int64, fromDay string) ([]Plan, error)
	DueOn(ctx context.Context, day string) ([]Plan, error)
	SetCompleted(ctx context.Context, id int64, completed bool) error
	SetNotified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ClearDay(ctx context.Context, userID int64, day string) (int, error)
}

// Service manages daily work plans.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new plan service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Add creates a plan for today from free-form input. A "text | date" suffix
// sets the due date.
func (s *Service) Add(ctx context.Context, userID int64, input string) (*Plan, error) {
	text := strings.TrimSpace(input)
	var due *time.Time

	if idx := strings.IndexByte(text, '|'); idx >= 0 {
		dueStr := strings.TrimSpace(text[idx+1:])
		text = strings.TrimSpace(text[:idx])
		parsed, ok := parseDue(dueStr)
		if !ok {
			return nil, ErrBadDueDate
		}
		due = &parsed
	}

	if len([]rune(text)) < minTextLen {
		return nil, ErrTextTooShort
	}

	p := &Plan{
		UserID:    userID,
		Text:      text,
		PlanDate:  s.now().Format(DayFormat),
		DueDate:   due,
		CreatedAt: s.now(),
	}
	if err := s.repo.Add(ctx, p); err != nil {
		return nil, fmt.Errorf("adding plan: %w", err)
	}
	return p, nil
}

// ListToday returns the user's plans for today; admins see everyone's.
func (s *Service) ListToday(ctx context.Context, userID int64, admin bool) ([]Plan, error) {
	day := s.now().Format(DayFormat)
	if admin {
		return s.repo.ListDayAll(ctx, day)
	}
	return s.repo.ListDay(ctx, userID, day)
}

// Upcoming returns the user's incomplete plans due today or later.
func (s *Service) Upcoming(ctx context.Context, userID int64) ([]Plan, error) {
	return s.repo.Upcoming(ctx, userID, s.now().Format(DayFormat))
}

// DueToday returns every incomplete plan due today, across users.
func (s *Service) DueToday(ctx context.Context) ([]Plan, error) {
	return s.repo.DueOn(ctx, s.now().Format(DayFormat))
}

// Toggle flips completion of the user's own plan.
func (s *Service) Toggle(ctx context.Context, userID, planID int64) (*Plan, error) {
	p, err := s.owned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCompleted(ctx, planID, !p.Completed); err != nil {
		return nil, fmt.Errorf("toggling plan: %w", err)
	}
	p.Completed = !p.Completed
	return p, nil
}

// Delete removes the user's own plan.
func (s *Service) Delete(ctx context.Context, userID, planID int64) error {
	if _, err := s.owned(ctx, userID, planID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, planID); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

// MarkNotified records that a due reminder went out for the plan.
func (s *Service) MarkNotified(ctx context.Context, planID int64) error {
	if err := s.repo.SetNotified(ctx, planID); err != nil {
		return fmt.Errorf("marking plan notified: %w", err)
	}
	return nil
}

// ClearToday deletes the user's plans for today, returning how many went.
func (s *Service) ClearToday(ctx context.Context, userID int64) (int, error) {
	n, err := s.repo.ClearDay(ctx, userID, s.now().Format(DayFormat))
	if err != nil {
		return 0, fmt.Errorf("clearing plans: %w", err)
	}
	return n, nil
}

// StatsToday summarizes today's plans across all users.
func (s *Service) StatsToday(ctx context.Context) (DayStats, error) {
	day := s.now().Format(DayFormat)
	plans, err := s.repo.ListDayAll(ctx, day)
	if err != nil {
		return DayStats{}, fmt.Errorf("loading day plans: %w", err)
	}
	stats := DayStats{Total: len(plans)}
	for _, p := range plans {
		if p.Completed {
			stats.Completed++
		}
		if p.DueDate != nil && p.DueDate.Format(DayFormat) == day {
			stats.DueToday++
		}
	}
	return stats, nil
}

func (s *Service) owned(ctx context.Context, userID, planID int64) (*Plan, error) {
	p, err := s.repo.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	if p.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

func parseDue(s string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
