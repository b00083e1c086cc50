package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shuhratov/loyihabot/internal/domain/deadline"
	"github.com/shuhratov/loyihabot/internal/domain/plan"
	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/repository"
	"github.com/shuhratov/loyihabot/internal/repository/mocks"
)

type sentMessage struct {
	chatID int64
	text   string
}

// fakeSender records deliveries and fails for chat IDs in failFor.
type fakeSender struct {
	sent    []sentMessage
	failFor map[int64]bool
}

func (s *fakeSender) Send(_ context.Context, chatID int64, text string) error {
	if s.failFor[chatID] {
		return errors.New("chat blocked")
	}
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

// memPlanRepo is a minimal in-memory plan store for reminder tests.
type memPlanRepo struct {
	plans map[int64]*plan.Plan
}

func (r *memPlanRepo) Add(_ context.Context, p *plan.Plan) error {
	if r.plans == nil {
		r.plans = map[int64]*plan.Plan{}
	}
	p.ID = int64(len(r.plans) + 1)
	r.plans[p.ID] = p
	return nil
}

func (r *memPlanRepo) Get(_ context.Context, id int64) (*plan.Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *memPlanRepo) ListDay(_ context.Context, userID int64, day string) ([]plan.Plan, error) {
	return nil, nil
}

func (r *memPlanRepo) ListDayAll(_ context.Context, day string) ([]plan.Plan, error) {
	return nil, nil
}

func (r *memPlanRepo) Upcoming(_ context.Context, userID int64, fromDay string) ([]plan.Plan, error) {
	return nil, nil
}

func (r *memPlanRepo) DueOn(_ context.Context, day string) ([]plan.Plan, error) {
	var due []plan.Plan
	for _, p := range r.plans {
		if p.DueDate != nil && p.DueDate.Format(plan.DayFormat) == day && !p.Completed {
			due = append(due, *p)
		}
	}
	return due, nil
}

func (r *memPlanRepo) SetCompleted(_ context.Context, id int64, completed bool) error {
	r.plans[id].Completed = completed
	return nil
}

func (r *memPlanRepo) SetNotified(_ context.Context, id int64) error {
	r.plans[id].Notified = true
	return nil
}

func (r *memPlanRepo) Delete(_ context.Context, id int64) error {
	delete(r.plans, id)
	return nil
}

func (r *memPlanRepo) ClearDay(_ context.Context, userID int64, day string) (int, error) {
	return 0, nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC)
	}
}

func dayPtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newTestService(t *testing.T, sender Sender, recipients []int64, planRepo plan.Repository) *Service {
	t.Helper()

	recordRepo := &mocks.RecordRepository{}
	recordRepo.On("ProblemRecords", mock.Anything, mock.Anything, 0, 0).
		Return([]record.ProjectRecord{
			{Problem: "no financing", Deadline: dayPtr("2025-01-05")},
		}, nil)

	logger := slog.New(slog.DiscardHandler)
	deadlineSvc := deadline.NewService(recordRepo, logger)
	planSvc := plan.NewService(planRepo, logger).WithClock(fixedClock())

	svc, err := NewService(deadlineSvc, planSvc, sender, recipients, "17:00", time.UTC, 3800, logger)
	require.NoError(t, err)
	return svc.WithClock(fixedClock())
}

func TestNewServiceRejectsBadTime(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	_, err := NewService(nil, nil, nil, nil, "evening", time.UTC, 3800, logger)
	require.Error(t, err)

	_, err = NewService(nil, nil, nil, nil, "25:00", time.UTC, 3800, logger)
	require.Error(t, err)
}

func TestFireDeliversReport(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestService(t, sender, []int64{1, 2}, &memPlanRepo{})

	svc.Fire(context.Background())
	require.Len(t, sender.sent, 2)
	require.Contains(t, sender.sent[0].text, "Deadline report for 10.01.2025")
	require.Contains(t, sender.sent[0].text, "Expired: 1")
}

func TestFireFailingRecipientDoesNotBlockRest(t *testing.T) {
	sender := &fakeSender{failFor: map[int64]bool{2: true}}
	svc := newTestService(t, sender, []int64{1, 2, 3}, &memPlanRepo{})

	svc.Fire(context.Background())
	require.Len(t, sender.sent, 2)
	require.Equal(t, int64(1), sender.sent[0].chatID)
	require.Equal(t, int64(3), sender.sent[1].chatID)
}

func TestFireSendsPlanRemindersOnce(t *testing.T) {
	ctx := context.Background()
	planRepo := &memPlanRepo{}
	sender := &fakeSender{}
	svc := newTestService(t, sender, nil, planRepo)

	due := dayPtr("2025-01-10")
	require.NoError(t, planRepo.Add(ctx, &plan.Plan{UserID: 42, Text: "sign the contract", DueDate: due}))
	require.NoError(t, planRepo.Add(ctx, &plan.Plan{UserID: 43, Text: "later task", DueDate: dayPtr("2025-01-20")}))

	svc.Fire(ctx)
	require.Len(t, sender.sent, 1)
	require.Equal(t, int64(42), sender.sent[0].chatID)
	require.Contains(t, sender.sent[0].text, "Plan due today: sign the contract")

	// A second fire must not repeat the reminder.
	svc.Fire(ctx)
	require.Len(t, sender.sent, 1)
}

func TestNextFireSameDayAndRollover(t *testing.T) {
	svc := newTestService(t, &fakeSender{}, nil, &memPlanRepo{})

	before := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	next := svc.nextFire(before)
	require.Equal(t, time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC), next)

	after := time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)
	next = svc.nextFire(after)
	require.Equal(t, time.Date(2025, 1, 11, 17, 0, 0, 0, time.UTC), next)
}
