// Package broadcast delivers the scheduled deadline report and due-plan
// reminders.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/deadline"
	"github.com/shuhratov/loyihabot/internal/domain/plan"
	"github.com/shuhratov/loyihabot/internal/render"
)

// Sender delivers one text message to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Service fires once a day at a fixed local time.
type Service struct {
	deadlines  *deadline.Service
	plans      *plan.Service
	sender     Sender
	recipients []int64
	hour       int
	minute     int
	loc        *time.Location
	maxText    int
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a broadcast service firing at "HH:MM" in loc.
func NewService(deadlines *deadline.Service, plans *plan.Service, sender Sender, recipients []int64, at string, loc *time.Location, maxText int, logger *slog.Logger) (*Service, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(at, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("parsing broadcast time %q: %w", at, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("broadcast time %q out of range", at)
	}
	return &Service{
		deadlines:  deadlines,
		plans:      plans,
		sender:     sender,
		recipients: recipients,
		hour:       hour,
		minute:     minute,
		loc:        loc,
		maxText:    maxText,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run schedules the daily fire until the context ends.
func (s *Service) Run(ctx context.Context) {
	go func() {
		for {
			next := s.nextFire(s.now().In(s.loc))
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				s.Fire(ctx)
			}
		}
	}()
}

// Fire sends the deadline report to every recipient and reminds plan owners
// of plans due today. A failing recipient never blocks the rest.
func (s *Service) Fire(ctx context.Context) {
	s.sendReport(ctx)
	s.sendPlanReminders(ctx)
}

func (s *Service) sendReport(ctx context.Context) {
	stats, err := s.deadlines.Analyze(ctx, s.now().In(s.loc))
	if err != nil {
		s.logger.Error("building deadline report", "error", err)
		return
	}
	text := render.Lines(render.DeadlineSummary(stats), s.maxText)

	delivered := 0
	for _, chatID := range s.recipients {
		if err := s.sender.Send(ctx, chatID, text); err != nil {
			s.logger.Error("delivering deadline report", "chat_id", chatID, "error", err)
			continue
		}
		delivered++
	}
	s.logger.Info("deadline report broadcast",
		"recipients", len(s.recipients),
		"delivered", delivered)
}

func (s *Service) sendPlanReminders(ctx context.Context) {
	due, err := s.plans.DueToday(ctx)
	if err != nil {
		s.logger.Error("loading due plans", "error", err)
		return
	}
	for _, p := range due {
		if p.Notified {
			continue
		}
		msg := "⏰ Plan due today: " + p.Text
		if err := s.sender.Send(ctx, p.UserID, msg); err != nil {
			s.logger.Error("delivering plan reminder", "user_id", p.UserID, "error", err)
			continue
		}
		if err := s.plans.MarkNotified(ctx, p.ID); err != nil {
			s.logger.Error("marking plan notified", "plan_id", p.ID, "error", err)
		}
	}
}

func (s *Service) nextFire(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
