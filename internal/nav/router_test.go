package nav_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shuhratov/loyihabot/internal/domain/deadline"
	"github.com/shuhratov/loyihabot/internal/domain/plan"
	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/domain/report"
	"github.com/shuhratov/loyihabot/internal/nav"
	"github.com/shuhratov/loyihabot/internal/sqlite"
)

const adminID = int64(99)

func fixedNow() time.Time {
	return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
}

func dayPtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newTestRouter(t *testing.T) (*nav.Router, *plan.Service) {
	t.Helper()
	router, planSvc, _ := newTestRouterWithStore(t)
	return router, planSvc
}

func newTestRouterWithStore(t *testing.T) (*nav.Router, *plan.Service, *nav.SessionStore) {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	recordRepo := sqlite.NewRecordRepository(db)
	planRepo := sqlite.NewPlanRepository(db)

	logger := slog.New(slog.DiscardHandler)
	clock := func() time.Time { return fixedNow() }

	require.NoError(t, recordRepo.ReplaceAll(context.Background(), []record.ProjectRecord{
		{
			Name: "Textile plant", Enterprise: "Alfa", ProjectType: "янги",
			District: "Andijon", TotalValue: 500, Status: "building",
			Size: record.SizeLarge, OrgResponsible: "Karimov", RegionResponsible: "Aliyev",
			Problem: "no financing", Deadline: dayPtr("2025-01-05"),
			Zone: "Industrial zone", PartnerCountry: "China",
		},
		{
			Name: "Cold storage", Enterprise: "Alfa", ProjectType: "йилдан",
			District: "Andijon", TotalValue: 200, Status: "building",
			Size: record.SizeMedium, OrgResponsible: "Karimov", RegionResponsible: "Aliyev",
		},
		{
			Name: "Solar park", Enterprise: "Beta", ProjectType: "янги",
			District: "Andijon", TotalValue: 900, Status: "launched",
			Size: record.SizeLarge, OrgResponsible: "Rasulov", RegionResponsible: "Aliyev",
			Problem: "no land plot", Deadline: dayPtr("2025-01-12"),
			Zone: "Industrial zone", PartnerCountry: "Turkey",
		},
		{
			Name: "Bakery", Enterprise: "Beta", ProjectType: "йилдан",
			District: "Buxoro", TotalValue: 50,
			Size: record.SizeSmall, OrgResponsible: "Rasulov", RegionResponsible: "Toirov",
			Problem: "no equipment",
		},
	}))

	reportSvc := report.NewService(recordRepo, logger)
	deadlineSvc := deadline.NewService(recordRepo, logger)
	planSvc := plan.NewService(planRepo, logger).WithClock(clock)

	store := nav.NewSessionStore()
	router := nav.NewRouter(reportSvc, deadlineSvc, planSvc, store, nav.Options{
		PageSize: 2,
		MaxText:  3800,
		Admins:   []int64{adminID},
	}, logger).WithClock(clock)
	return router, planSvc, store
}

func hasCommand(v nav.View, cmd string) bool {
	for _, row := range v.Keyboard {
		for _, btn := range row {
			if btn.Command == cmd {
				return true
			}
		}
	}
	return false
}

func TestRootView(t *testing.T) {
	router, _ := newTestRouter(t)

	v := router.Root(context.Background(), 1)
	require.Contains(t, v.Text, "Projects: 4")
	require.Contains(t, v.Text, "New: 2")
	require.Contains(t, v.Text, "With problems: 3")
	require.True(t, hasCommand(v, "menu:corp"))
	require.True(t, hasCommand(v, "menu:deadlines"))
	require.True(t, hasCommand(v, "size:large"))
}

func TestMalformedCommand(t *testing.T) {
	router, _ := newTestRouter(t)

	v := router.Handle(context.Background(), 1, ":broken")
	require.Contains(t, v.Text, "Something went wrong")
	require.True(t, hasCommand(v, "back:main"))
}

func TestUnknownVerb(t *testing.T) {
	router, _ := newTestRouter(t)

	v := router.Handle(context.Background(), 1, "bogus:1")
	require.Contains(t, v.Text, "Something went wrong")
}

func TestDistrictDrillDown(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	menu := router.Handle(ctx, 1, "menu:district")
	require.Contains(t, menu.Text, "Andijon: 3")
	require.True(t, hasCommand(menu, "dist:Andijon:0"))

	detail := router.Handle(ctx, 1, "dist:Andijon:0")
	// Page size 2, ordered by value: Solar park then Textile plant.
	require.Contains(t, detail.Text, "Solar park")
	require.Contains(t, detail.Text, "Textile plant")
	require.NotContains(t, detail.Text, "Cold storage")
	require.True(t, hasCommand(detail, "dist:Andijon:1"))

	next := router.Handle(ctx, 1, "dist:Andijon:1")
	require.Contains(t, next.Text, "Cold storage")
	require.True(t, hasCommand(next, "dist:Andijon:0"))
}

func TestProjectTypeSessionFilter(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	menu := router.Handle(ctx, 1, "menu:new")
	require.Contains(t, menu.Text, "New projects by district")
	require.Contains(t, menu.Text, "Andijon: 2")
	require.NotContains(t, menu.Text, "Buxoro")

	detail := router.Handle(ctx, 1, "dist:Andijon:0")
	require.Contains(t, detail.Text, "Solar park")
	require.NotContains(t, detail.Text, "Cold storage")

	// Root commands clear the filter.
	router.Handle(ctx, 1, "back:main")
	detail = router.Handle(ctx, 1, "dist:Andijon:0")
	require.Contains(t, detail.Text, "Textile plant")
}

func TestEnterpriseDrillDown(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	menu := router.Handle(ctx, 1, "menu:corp")
	require.Contains(t, menu.Text, "Alfa: 2")
	require.True(t, hasCommand(menu, "corp:Beta"))

	detail := router.Handle(ctx, 1, "corp:Beta")
	require.Contains(t, detail.Text, "Beta")
	require.Contains(t, detail.Text, "Projects: 2")
	require.True(t, hasCommand(detail, "corpdist:Beta:Andijon:0"))

	list := router.Handle(ctx, 1, "corpdist:Beta:Andijon:0")
	require.Contains(t, list.Text, "Solar park")
	require.NotContains(t, list.Text, "Bakery")
}

func TestProblemViews(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	list := router.Handle(ctx, 1, "menu:problem")
	// Problem ordering: ascending deadline first.
	require.True(t, strings.Index(list.Text, "Textile plant") < strings.Index(list.Text, "Solar park"))
	require.True(t, hasCommand(list, "prob:1"))

	last := router.Handle(ctx, 1, "prob:1")
	require.Contains(t, last.Text, "Bakery")

	byDistrict := router.Handle(ctx, 1, "menu:probdist")
	require.Contains(t, byDistrict.Text, "Andijon: 2")
	require.True(t, hasCommand(byDistrict, "probdist:Andijon:0"))

	detail := router.Handle(ctx, 1, "probdist:Andijon:0")
	require.Contains(t, detail.Text, "no financing")
}

func TestSizeDrillDown(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	v := router.Handle(ctx, 1, "size:large")
	require.Contains(t, v.Text, "Large projects")
	require.Contains(t, v.Text, "Projects: 2")
	require.True(t, hasCommand(v, "sizedist:large:Andijon:0"))

	detail := router.Handle(ctx, 1, "sizedist:large:Andijon:0")
	require.Contains(t, detail.Text, "Solar park")
	require.NotContains(t, detail.Text, "Cold storage")
}

func TestDeadlineViews(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	menu := router.Handle(ctx, 1, "menu:deadlines")
	require.Contains(t, menu.Text, "Problem projects: 3")
	require.Contains(t, menu.Text, "Expired: 1")
	require.True(t, hasCommand(menu, "dl:expired:0"))

	expired := router.Handle(ctx, 1, "dl:expired:0")
	require.Contains(t, expired.Text, "Textile plant")
	require.NotContains(t, expired.Text, "Solar park")

	urgent := router.Handle(ctx, 1, "dl:urgent:0")
	require.Contains(t, urgent.Text, "Solar park")

	all := router.Handle(ctx, 1, "dl:all:0")
	require.Contains(t, all.Text, "Textile plant")
	require.Contains(t, all.Text, "Solar park")
}

func TestResponsibleViews(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	menu := router.Handle(ctx, 1, "menu:employees")
	require.True(t, hasCommand(menu, "menu:orglist"))

	org := router.Handle(ctx, 1, "menu:orglist")
	require.Contains(t, org.Text, "Rasulov: 2 projects, 2 problems")
	require.True(t, hasCommand(org, "emp:org:Karimov:0"))

	detail := router.Handle(ctx, 1, "emp:org:Karimov:0")
	require.Contains(t, detail.Text, "Textile plant")
	require.Contains(t, detail.Text, "Cold storage")
	require.NotContains(t, detail.Text, "Bakery")

	region := router.Handle(ctx, 1, "menu:reglist")
	require.Contains(t, region.Text, "Aliyev: 3 projects")
}

func TestStatusView(t *testing.T) {
	router, _ := newTestRouter(t)

	v := router.Handle(context.Background(), 1, "menu:status")
	require.Contains(t, v.Text, "building: 2")
	require.Contains(t, v.Text, "launched: 1")
}

func TestSelfDescribingDrillsLeaveSessionEmpty(t *testing.T) {
	ctx := context.Background()
	router, _, store := newTestRouterWithStore(t)

	// Size and enterprise drill-downs carry their selection in the
	// command itself; nothing belongs in the session.
	router.Handle(ctx, 1, "size:large")
	router.Handle(ctx, 1, "corp:Alfa")
	require.Equal(t, nav.Session{}, store.Get(1))
}

func TestZoneAndPartnerViews(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	zones := router.Handle(ctx, 1, "menu:zone")
	require.Contains(t, zones.Text, "Projects by zone")
	require.Contains(t, zones.Text, "Industrial zone: 2")

	partners := router.Handle(ctx, 1, "menu:partners")
	require.Contains(t, partners.Text, "China: 1")
	require.Contains(t, partners.Text, "Turkey: 1")
}

func TestPlanFlow(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	menu := router.Handle(ctx, 1, "menu:plans")
	require.True(t, hasCommand(menu, "plan:add"))

	prompt := router.Handle(ctx, 1, "plan:add")
	require.Contains(t, prompt.Text, "Send the plan text")

	// The next free-text message becomes the plan.
	added, ok := router.HandleText(ctx, 1, "call the contractor | 2025-01-12")
	require.True(t, ok)
	require.Contains(t, added.Text, "Plan saved: call the contractor")
	require.Contains(t, added.Text, "Due 12.01.2025")

	// Input mode is one-shot.
	_, ok = router.HandleText(ctx, 1, "stray text")
	require.False(t, ok)

	list := router.Handle(ctx, 1, "plan:list:0")
	require.Contains(t, list.Text, "call the contractor")
	require.Contains(t, list.Text, "⬜️")
}

func TestPlanShortTextRejected(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	router.Handle(ctx, 1, "plan:add")
	v, ok := router.HandleText(ctx, 1, "ab")
	require.True(t, ok)
	require.Contains(t, v.Text, "too short")
}

func TestPlanStatsAdminOnly(t *testing.T) {
	ctx := context.Background()
	router, _ := newTestRouter(t)

	denied := router.Handle(ctx, 1, "plan:stats")
	require.Contains(t, denied.Text, "Something went wrong")

	allowed := router.Handle(ctx, adminID, "plan:stats")
	require.Contains(t, allowed.Text, "Plans today")
}

func TestPlanClearConfirmation(t *testing.T) {
	ctx := context.Background()
	router, plans := newTestRouter(t)

	_, err := plans.Add(ctx, 1, "first task")
	require.NoError(t, err)

	confirm := router.Handle(ctx, 1, "plan:clear")
	require.Contains(t, confirm.Text, "Delete all")
	require.True(t, hasCommand(confirm, "plan:clearok"))

	done := router.Handle(ctx, 1, "plan:clearok")
	require.Contains(t, done.Text, "Removed 1 plan")
}
