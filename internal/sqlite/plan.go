package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/plan"
	"github.com/shuhratov/loyihabot/internal/repository"
)

// PlanRepository implements repository.PlanRepository for SQLite
type PlanRepository struct {
	db *DB
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db *DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Add inserts a plan and fills in its assigned ID.
func (r *PlanRepository) Add(ctx context.Context, p *plan.Plan) error {
	var due any
	if p.DueDate != nil {
		due = p.DueDate.Format(dayLayout)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO plans (user_id, text, plan_date, due_date, completed, notified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.UserID, p.Text, p.PlanDate, due, p.Completed, p.Notified, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read plan id: %w", err)
	}
	p.ID = id
	return nil
}

// Get retrieves a plan by ID.
func (r *PlanRepository) Get(ctx context.Context, id int64) (*plan.Plan, error) {
	row := r.db.QueryRowContext(ctx, planColumns+" WHERE id = ?", id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &p, nil
}

// ListDay returns one user's plans for a day, oldest first.
func (r *PlanRepository) ListDay(ctx context.Context, userID int64, day string) ([]plan.Plan, error) {
	return r.queryPlans(ctx, planColumns+" WHERE user_id = ? AND plan_date = ? ORDER BY id", userID, day)
}

// ListDayAll returns every user's plans for a day, oldest first.
func (r *PlanRepository) ListDayAll(ctx context.Context, day string) ([]plan.Plan, error) {
	return r.queryPlans(ctx, planColumns+" WHERE plan_date = ? ORDER BY user_id, id", day)
}

// Upcoming returns a user's incomplete plans due on or after fromDay.
func (r *PlanRepository) Upcoming(ctx context.Context, userID int64, fromDay string) ([]plan.Plan, error) {
	return r.queryPlans(ctx, planColumns+`
		WHERE user_id = ? AND completed = 0 AND due_date IS NOT NULL AND due_date >= ?
		ORDER BY due_date, id`, userID, fromDay)
}

// DueOn returns incomplete plans due exactly on the given day, all users.
func (r *PlanRepository) DueOn(ctx context.Context, day string) ([]plan.Plan, error) {
	return r.queryPlans(ctx, planColumns+`
		WHERE completed = 0 AND due_date = ?
		ORDER BY user_id, id`, day)
}

// SetCompleted flips a plan's completion flag.
func (r *PlanRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	return r.updateFlag(ctx, "UPDATE plans SET completed = ? WHERE id = ?", completed, id)
}

// SetNotified marks a plan's due reminder as delivered.
func (r *PlanRepository) SetNotified(ctx context.Context, id int64) error {
	return r.updateFlag(ctx, "UPDATE plans SET notified = 1 WHERE id = ?", id)
}

// Delete removes a plan.
func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	return r.updateFlag(ctx, "DELETE FROM plans WHERE id = ?", id)
}

// ClearDay deletes one user's plans for a day and reports how many went.
func (r *PlanRepository) ClearDay(ctx context.Context, userID int64, day string) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM plans WHERE user_id = ? AND plan_date = ?", userID, day)
	if err != nil {
		return 0, fmt.Errorf("failed to clear plans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared plans: %w", err)
	}
	return int(n), nil
}

const planColumns = `
	SELECT id, user_id, text, plan_date, due_date, completed, notified, created_at
	FROM plans`

func (r *PlanRepository) updateFlag(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check plan update: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PlanRepository) queryPlans(ctx context.Context, query string, args ...any) ([]plan.Plan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return plans, nil
}

func scanPlan(s rowScanner) (plan.Plan, error) {
	var p plan.Plan
	var due *string
	err := s.Scan(&p.ID, &p.UserID, &p.Text, &p.PlanDate, &due, &p.Completed, &p.Notified, &p.CreatedAt)
	if err != nil {
		return plan.Plan{}, err
	}
	if due != nil {
		d, err := time.Parse(dayLayout, *due)
		if err != nil {
			return plan.Plan{}, fmt.Errorf("failed to parse stored due date: %w", err)
		}
		p.DueDate = &d
	}
	return p, nil
}
