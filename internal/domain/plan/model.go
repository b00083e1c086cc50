package plan

import "time"

// DayFormat is the canonical plan-day key.
const DayFormat = "2006-01-02"

// Plan is one daily work plan entry owned by a single user.
type Plan struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Text      string     `json:"text"`
	PlanDate  string     `json:"plan_date"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Completed bool       `json:"completed"`
	Notified  bool       `json:"notified"`
	CreatedAt time.Time  `json:"created_at"`
}

// DayStats summarizes one day's plans.
type DayStats struct {
	Total     int
	Completed int
	DueToday  int
}

// CompletionPct returns the completed share as a whole percentage.
func (s DayStats) CompletionPct() int {
	if s.Total == 0 {
		return 0
	}
	return s.Completed * 100 / s.Total
}
