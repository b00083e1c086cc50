package record

import (
	"strings"
	"time"
)

// SizeBucket classifies a project by its free-text size label.
type SizeBucket string

const (
	SizeUnset  SizeBucket = ""
	SizeSmall  SizeBucket = "small"
	SizeMedium SizeBucket = "medium"
	SizeLarge  SizeBucket = "large"
)

// DeadlineBucket classifies a problem deadline relative to a reference day.
type DeadlineBucket string

const (
	DeadlineUnset    DeadlineBucket = "unset"
	DeadlineExpired  DeadlineBucket = "expired"
	DeadlineUrgent   DeadlineBucket = "urgent"
	DeadlineUpcoming DeadlineBucket = "upcoming"
)

// UrgentWindowDays is the span after "today" (inclusive) that still counts
// as urgent.
const UrgentWindowDays = 3

// ProjectRecord is one normalized spreadsheet row. Absent values are
// represented explicitly: empty strings, SizeUnset, nil Deadline. Display
// fallbacks such as "Unknown" are applied at render time only.
type ProjectRecord struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Enterprise        string     `json:"enterprise"`
	ProjectType       string     `json:"project_type"`
	District          string     `json:"district"`
	Zone              string     `json:"zone"`
	TotalValue        float64    `json:"total_value"`
	PeriodValue       float64    `json:"period_value"`
	Size              SizeBucket `json:"size,omitempty"`
	Partner           string     `json:"partner"`
	PartnerCountry    string     `json:"partner_country"`
	Status            string     `json:"status"`
	Problem           string     `json:"problem,omitempty"`
	OrgResponsible    string     `json:"org_responsible"`
	RegionResponsible string     `json:"region_responsible"`
	Deadline          *time.Time `json:"deadline,omitempty"`
}

// problemSentinels are labels that mean "no active problem". The legacy
// spreadsheet uses "Yuq" and "Nomalum" interchangeably with blanks.
var problemSentinels = map[string]struct{}{
	"":        {},
	"none":    {},
	"yuq":     {},
	"nomalum": {},
	"unknown": {},
}

// HasProblem reports whether the record carries an active problem label.
func (r ProjectRecord) HasProblem() bool {
	_, sentinel := problemSentinels[strings.ToLower(strings.TrimSpace(r.Problem))]
	return !sentinel
}

// DeadlineBucketOn classifies the record's problem deadline relative to
// today. A deadline equal to today is urgent, not expired.
func (r ProjectRecord) DeadlineBucketOn(today time.Time) DeadlineBucket {
	if r.Deadline == nil {
		return DeadlineUnset
	}
	d := truncateDay(*r.Deadline)
	t := truncateDay(today)
	switch {
	case d.Before(t):
		return DeadlineExpired
	case !d.After(t.AddDate(0, 0, UrgentWindowDays)):
		return DeadlineUrgent
	default:
		return DeadlineUpcoming
	}
}

// DaysUntilDeadline returns the signed day count from today to the deadline.
// Negative values mean the deadline has passed. ok is false without a deadline.
func (r ProjectRecord) DaysUntilDeadline(today time.Time) (days int, ok bool) {
	if r.Deadline == nil {
		return 0, false
	}
	return int(truncateDay(*r.Deadline).Sub(truncateDay(today)).Hours() / 24), true
}

// IsNew reports whether the project-type label marks a newly started project.
func (r ProjectRecord) IsNew() bool {
	return strings.Contains(strings.ToLower(r.ProjectType), "янг") ||
		strings.Contains(strings.ToLower(r.ProjectType), "new")
}

// IsContinuing reports whether the project carries over from a prior year.
func (r ProjectRecord) IsContinuing() bool {
	return strings.Contains(strings.ToLower(r.ProjectType), "йил") ||
		strings.Contains(strings.ToLower(r.ProjectType), "continu")
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
