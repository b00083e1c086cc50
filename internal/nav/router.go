package nav

import (
	"context"
	"log/slog"
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/deadline"
	"github.com/shuhratov/loyihabot/internal/domain/plan"
	"github.com/shuhratov/loyihabot/internal/domain/report"
	"github.com/shuhratov/loyihabot/internal/repository"
)

// Options configures the router.
type Options struct {
	PageSize int
	MaxText  int
	// Admins see every user's plans.
	Admins []int64
}

// Router turns drill-down commands into views. It holds no navigation
// history; each command self-describes its target.
type Router struct {
	reports   *report.Service
	deadlines *deadline.Service
	plans     *plan.Service
	sessions  *SessionStore
	pageSize  int
	maxText   int
	admins    map[int64]bool
	logger    *slog.Logger
	now       func() time.Time
}

// NewRouter creates a new router.
func NewRouter(reports *report.Service, deadlines *deadline.Service, plans *plan.Service, sessions *SessionStore, opts Options, logger *slog.Logger) *Router {
	admins := make(map[int64]bool, len(opts.Admins))
	for _, id := range opts.Admins {
		admins[id] = true
	}
	return &Router{
		reports:   reports,
		deadlines: deadlines,
		plans:     plans,
		sessions:  sessions,
		pageSize:  opts.PageSize,
		maxText:   opts.MaxText,
		admins:    admins,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the router clock, for tests.
func (r *Router) WithClock(now func() time.Time) *Router {
	r.now = now
	return r
}

// Root builds the landing view: the full report plus the main keyboard.
func (r *Router) Root(ctx context.Context, userID int64) View {
	r.sessions.Clear(userID)
	v, err := r.rootView(ctx)
	if err != nil {
		return r.failView(err)
	}
	return v
}

// Handle maps one command to its view. Malformed or failing commands yield
// a generic failure view offering a return to the root; the cause is
// logged, not shown.
func (r *Router) Handle(ctx context.Context, userID int64, data string) View {
	cmd, err := Parse(data)
	if err != nil {
		return r.failView(err)
	}

	var v View
	switch cmd.Verb {
	case "back":
		v, err = r.handleBack(ctx, userID, cmd)
	case "menu":
		v, err = r.handleMenu(ctx, userID, cmd)
	case "size":
		v, err = r.sizeView(ctx, cmd.Arg(0))
	case "sizedist":
		v, err = r.sizeDistrictView(ctx, cmd.Arg(0), cmd.Arg(1), cmd.Page())
	case "corp":
		v, err = r.enterpriseView(ctx, cmd.Arg(0))
	case "corpdist":
		v, err = r.enterpriseDistrictView(ctx, cmd.Arg(0), cmd.Arg(1), cmd.Page())
	case "dist":
		sess := r.sessions.Get(userID)
		v, err = r.districtView(ctx, cmd.Arg(0), cmd.Page(), sess.ProjectType)
	case "prob":
		v, err = r.problemListView(ctx, cmd.Page())
	case "probdist":
		v, err = r.problemDistrictDetailView(ctx, cmd.Arg(0), cmd.Page())
	case "dl":
		v, err = r.deadlineListView(ctx, cmd.Arg(0), cmd.Page())
	case "emp":
		v, err = r.responsibleDetailView(ctx, cmd.Arg(0), cmd.Arg(1), cmd.Page())
	case "plan":
		v, err = r.handlePlan(ctx, userID, cmd)
	default:
		err = ErrBadCommand
	}
	if err != nil {
		return r.failView(err)
	}
	return v
}

// HandleText consumes a free-text message. It returns ok=false when the
// user's session is not expecting text input.
func (r *Router) HandleText(ctx context.Context, userID int64, text string) (View, bool) {
	sess := r.sessions.Get(userID)
	if !sess.AwaitingPlanText {
		return View{}, false
	}
	sess.AwaitingPlanText = false
	r.sessions.Set(userID, sess)
	return r.planAdded(ctx, userID, text), true
}

func (r *Router) handleBack(ctx context.Context, userID int64, cmd Command) (View, error) {
	r.sessions.Clear(userID)
	switch cmd.Arg(0) {
	case "corp":
		return r.enterpriseMenu(ctx)
	case "district":
		return r.districtMenu(ctx)
	case "deadlines":
		return r.deadlineMenu(ctx)
	case "employees":
		return r.employeeMenu(ctx)
	case "plans":
		return r.planMenu(userID), nil
	default:
		return r.rootView(ctx)
	}
}

func (r *Router) handleMenu(ctx context.Context, userID int64, cmd Command) (View, error) {
	r.sessions.Clear(userID)
	switch key := cmd.Arg(0); key {
	case "corp":
		return r.enterpriseMenu(ctx)
	case "new":
		r.sessions.Set(userID, Session{ProjectType: repository.ProjectTypeNew})
		return r.districtPicker(ctx, repository.ProjectTypeNew)
	case "cont":
		r.sessions.Set(userID, Session{ProjectType: repository.ProjectTypeContinuing})
		return r.districtPicker(ctx, repository.ProjectTypeContinuing)
	case "district":
		return r.districtMenu(ctx)
	case "status":
		return r.statusView(ctx)
	case "zone":
		return r.zoneView(ctx)
	case "partners":
		return r.partnerCountryView(ctx)
	case "problem":
		return r.problemListView(ctx, 0)
	case "probdist":
		return r.problemDistrictMenu(ctx)
	case "deadlines":
		return r.deadlineMenu(ctx)
	case "employees":
		return r.employeeMenu(ctx)
	case "orglist":
		return r.responsibleListView(ctx, repository.ResponsibleOrg)
	case "reglist":
		return r.responsibleListView(ctx, repository.ResponsibleRegion)
	case "plans":
		return r.planMenu(userID), nil
	default:
		return View{}, ErrBadCommand
	}
}

func (r *Router) failView(err error) View {
	r.logger.Error("navigation failed", "error", err)
	return View{
		Text:     "⚠️ Something went wrong. Please try again.",
		Keyboard: [][]Button{rootRow()},
	}
}

func (r *Router) isAdmin(userID int64) bool {
	return r.admins[userID]
}
