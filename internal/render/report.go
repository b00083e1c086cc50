package render

import (
	"fmt"
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/deadline"
	"github.com/shuhratov/loyihabot/internal/domain/record"
)

const dateLayout = "02.01.2006"

// RecordBlock renders one project record as message lines.
func RecordBlock(rec record.ProjectRecord, today time.Time) []string {
	lines := []string{
		"📌 " + Text(rec.Name),
		"🏢 " + Text(rec.Enterprise),
		"📍 " + Text(rec.District),
		"💰 " + Value(rec.TotalValue),
	}
	if rec.HasProblem() {
		lines = append(lines, "⚠️ "+rec.Problem)
	}
	lines = append(lines, "⏰ "+deadlineLine(rec, today))
	return lines
}

func deadlineLine(rec record.ProjectRecord, today time.Time) string {
	days, ok := rec.DaysUntilDeadline(today)
	if !ok {
		return Unknown
	}
	when := rec.Deadline.Format(dateLayout)
	switch {
	case days < 0:
		return fmt.Sprintf("%s (%d days overdue)", when, -days)
	case days == 0:
		return when + " (today)"
	default:
		return fmt.Sprintf("%s (%d days left)", when, days)
	}
}

// DeadlineSummary renders deadline statistics as message lines.
func DeadlineSummary(s deadline.Stats) []string {
	lines := []string{
		"⏰ Deadline report for " + s.Today.Format(dateLayout),
		"",
		fmt.Sprintf("⚠️ Problem projects: %d", s.TotalProblems),
		fmt.Sprintf("🔴 Expired: %d", s.Expired),
		fmt.Sprintf("🟠 Urgent (within %d days): %d", record.UrgentWindowDays, s.Urgent),
		fmt.Sprintf("🟢 Upcoming: %d", s.Upcoming),
		fmt.Sprintf("⚪️ No deadline: %d", s.Unset),
	}
	if s.OldestOverdueDays > 0 {
		lines = append(lines, fmt.Sprintf("📛 Most overdue: %d days", s.OldestOverdueDays))
	}
	if s.HasNearest {
		lines = append(lines, fmt.Sprintf("⏳ Nearest deadline in %d days", s.DaysToNearest))
	}
	if len(s.MonthHistogram) > 0 {
		lines = append(lines, "", "📅 Deadlines by month:")
		for _, mc := range s.MonthHistogram {
			lines = append(lines, fmt.Sprintf("  %s: %d", mc.Month.String(), mc.Count))
		}
	}
	if len(s.TopResponsible) > 0 {
		lines = append(lines, "", "👥 Most loaded responsibles:")
		for _, rc := range s.TopResponsible {
			lines = append(lines, fmt.Sprintf("  %s: %d", rc.Name, rc.Count))
		}
	}
	return lines
}
