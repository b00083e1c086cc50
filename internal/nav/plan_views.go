package nav

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shuhratov/loyihabot/internal/domain/plan"
	"github.com/shuhratov/loyihabot/internal/render"
)

func (r *Router) handlePlan(ctx context.Context, userID int64, cmd Command) (View, error) {
	switch cmd.Arg(0) {
	case "add":
		sess := r.sessions.Get(userID)
		sess.AwaitingPlanText = true
		r.sessions.Set(userID, sess)
		return View{
			Text:     "✍️ Send the plan text. Append \" | 2006-01-02\" to set a due date.",
			Keyboard: [][]Button{backRow("plans")},
		}, nil
	case "list":
		return r.planListView(ctx, userID, cmd.Page())
	case "upcoming":
		return r.planUpcomingView(ctx, userID)
	case "stats":
		return r.planStatsView(ctx, userID)
	case "clear":
		return View{
			Text: "🗑 Delete all of today's plans?",
			Keyboard: [][]Button{
				{{Label: "✅ Yes, delete", Command: Format("plan", "clearok")}},
				backRow("plans"),
			},
		}, nil
	case "clearok":
		n, err := r.plans.ClearToday(ctx, userID)
		if err != nil {
			return View{}, err
		}
		return View{
			Text:     fmt.Sprintf("🗑 Removed %d plan(s).", n),
			Keyboard: [][]Button{backRow("plans"), rootRow()},
		}, nil
	case "toggle":
		id, err := strconv.ParseInt(cmd.Arg(1), 10, 64)
		if err != nil {
			return View{}, ErrBadCommand
		}
		if _, err := r.plans.Toggle(ctx, userID, id); err != nil && !errors.Is(err, plan.ErrPlanNotFound) {
			return View{}, err
		}
		return r.planListView(ctx, userID, cmd.Page())
	case "del":
		id, err := strconv.ParseInt(cmd.Arg(1), 10, 64)
		if err != nil {
			return View{}, ErrBadCommand
		}
		if err := r.plans.Delete(ctx, userID, id); err != nil && !errors.Is(err, plan.ErrPlanNotFound) {
			return View{}, err
		}
		return r.planListView(ctx, userID, cmd.Page())
	default:
		return View{}, ErrBadCommand
	}
}

func (r *Router) planMenu(userID int64) View {
	keyboard := [][]Button{
		{{Label: "➕ Add plan", Command: Format("plan", "add")}},
		{
			{Label: "📋 Today", Command: Format("plan", "list", "0")},
			{Label: "📅 Upcoming", Command: Format("plan", "upcoming")},
		},
		{{Label: "🗑 Clear today", Command: Format("plan", "clear")}},
	}
	if r.isAdmin(userID) {
		keyboard = append(keyboard, []Button{{Label: "📊 Day stats", Command: Format("plan", "stats")}})
	}
	keyboard = append(keyboard, rootRow())
	return View{Text: "🗒 Daily plans", Keyboard: keyboard}
}

func (r *Router) planAdded(ctx context.Context, userID int64, text string) View {
	p, err := r.plans.Add(ctx, userID, text)
	switch {
	case errors.Is(err, plan.ErrTextTooShort):
		return View{
			Text:     "✋ Plan text is too short, use at least 3 characters.",
			Keyboard: [][]Button{backRow("plans")},
		}
	case errors.Is(err, plan.ErrBadDueDate):
		return View{
			Text:     "✋ Could not read the due date. Try \"text | 2006-01-02\".",
			Keyboard: [][]Button{backRow("plans")},
		}
	case err != nil:
		return r.failView(err)
	}

	msg := "✅ Plan saved: " + p.Text
	if p.DueDate != nil {
		msg += "\n⏰ Due " + p.DueDate.Format("02.01.2006")
	}
	return View{
		Text: msg,
		Keyboard: [][]Button{
			{{Label: "📋 Today's plans", Command: Format("plan", "list", "0")}},
			backRow("plans"),
		},
	}
}

func (r *Router) planListView(ctx context.Context, userID int64, page int) (View, error) {
	plans, err := r.plans.ListToday(ctx, userID, r.isAdmin(userID))
	if err != nil {
		return View{}, err
	}

	lines := []string{"📋 Today's plans", ""}
	if len(plans) == 0 {
		lines = append(lines, "No plans yet.")
	}
	var keyboard [][]Button
	for i, p := range plans {
		mark := "⬜️"
		if p.Completed {
			mark = "✅"
		}
		line := fmt.Sprintf("%s %d. %s", mark, i+1, p.Text)
		if p.DueDate != nil {
			line += " (due " + p.DueDate.Format("02.01.2006") + ")"
		}
		lines = append(lines, line)

		if p.UserID == userID {
			id := strconv.FormatInt(p.ID, 10)
			pg := strconv.Itoa(page)
			keyboard = append(keyboard, []Button{
				{Label: fmt.Sprintf("%s %d", mark, i+1), Command: Format("plan", "toggle", id, pg)},
				{Label: fmt.Sprintf("🗑 %d", i+1), Command: Format("plan", "del", id, pg)},
			})
		}
	}
	keyboard = append(keyboard, backRow("plans"), rootRow())
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) planUpcomingView(ctx context.Context, userID int64) (View, error) {
	plans, err := r.plans.Upcoming(ctx, userID)
	if err != nil {
		return View{}, err
	}

	lines := []string{"📅 Upcoming plans", ""}
	if len(plans) == 0 {
		lines = append(lines, "Nothing due.")
	}
	for _, p := range plans {
		line := "• " + p.Text
		if p.DueDate != nil {
			line += ", due " + p.DueDate.Format("02.01.2006")
		}
		lines = append(lines, line)
	}
	return View{
		Text:     render.Lines(lines, r.maxText),
		Keyboard: [][]Button{backRow("plans"), rootRow()},
	}, nil
}

func (r *Router) planStatsView(ctx context.Context, userID int64) (View, error) {
	if !r.isAdmin(userID) {
		return View{}, ErrBadCommand
	}
	stats, err := r.plans.StatsToday(ctx)
	if err != nil {
		return View{}, err
	}
	lines := []string{
		"📊 Plans today",
		"",
		fmt.Sprintf("Total: %d", stats.Total),
		fmt.Sprintf("Completed: %d (%d%%)", stats.Completed, stats.CompletionPct()),
		fmt.Sprintf("Due today: %d", stats.DueToday),
	}
	return View{
		Text:     render.Lines(lines, r.maxText),
		Keyboard: [][]Button{backRow("plans"), rootRow()},
	}, nil
}
