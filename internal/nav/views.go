package nav

import (
	"context"
	"fmt"

	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/domain/report"
	"github.com/shuhratov/loyihabot/internal/render"
	"github.com/shuhratov/loyihabot/internal/repository"
)

func (r *Router) rootView(ctx context.Context) (View, error) {
	all, err := r.reports.Totals(ctx, repository.Filter{})
	if err != nil {
		return View{}, err
	}
	fresh, err := r.reports.Totals(ctx, repository.Filter{ProjectType: repository.ProjectTypeNew})
	if err != nil {
		return View{}, err
	}
	cont, err := r.reports.Totals(ctx, repository.Filter{ProjectType: repository.ProjectTypeContinuing})
	if err != nil {
		return View{}, err
	}
	problems, err := r.reports.Totals(ctx, repository.Filter{OnlyProblems: true})
	if err != nil {
		return View{}, err
	}

	lines := []string{
		"📊 Project report for " + r.now().Format("02.01.2006"),
		"",
		fmt.Sprintf("🔢 Projects: %d", all.Count),
		"💰 Total value: " + render.Value(all.TotalValue),
		"📈 Period value: " + render.Value(all.PeriodValue),
		"",
		fmt.Sprintf("🆕 New: %d (%s)", fresh.Count, render.Value(fresh.TotalValue)),
		fmt.Sprintf("♻️ Continuing: %d (%s)", cont.Count, render.Value(cont.TotalValue)),
		fmt.Sprintf("⚠️ With problems: %d", problems.Count),
	}

	keyboard := [][]Button{
		{{Label: "🏢 Enterprises", Command: Format("menu", "corp")}},
		{
			{Label: "🆕 New projects", Command: Format("menu", "new")},
			{Label: "♻️ Continuing", Command: Format("menu", "cont")},
		},
		{
			{Label: "🗺 Districts", Command: Format("menu", "district")},
			{Label: "📋 By status", Command: Format("menu", "status")},
		},
		{
			{Label: "⚠️ Problems", Command: Format("menu", "problem")},
			{Label: "🗺 Problem districts", Command: Format("menu", "probdist")},
		},
		{
			{Label: "🧭 Zones", Command: Format("menu", "zone")},
			{Label: "🌍 Partner countries", Command: Format("menu", "partners")},
		},
		{
			{Label: "🤏 Small", Command: Format("size", string(record.SizeSmall))},
			{Label: "🤝 Medium", Command: Format("size", string(record.SizeMedium))},
			{Label: "💪 Large", Command: Format("size", string(record.SizeLarge))},
		},
		{
			{Label: "⏰ Deadlines", Command: Format("menu", "deadlines")},
			{Label: "👥 Employees", Command: Format("menu", "employees")},
		},
		{{Label: "🗒 Daily plans", Command: Format("menu", "plans")}},
	}
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) enterpriseMenu(ctx context.Context) (View, error) {
	rows, err := r.reports.GroupBy(ctx, repository.DimEnterprise, repository.Filter{}, repository.OrderByCountDesc)
	if err != nil {
		return View{}, err
	}

	lines := []string{"🏢 Projects by enterprise", ""}
	keyboard := make([][]Button, 0, len(rows)+1)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %d (%s)", row.Key, row.Count, render.Value(row.TotalValue)))
		keyboard = append(keyboard, []Button{{
			Label:   row.Key,
			Command: Format("corp", row.Key),
		}})
	}
	keyboard = append(keyboard, rootRow())
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) enterpriseView(ctx context.Context, name string) (View, error) {
	f := repository.Filter{Enterprise: name}
	totals, err := r.reports.Totals(ctx, f)
	if err != nil {
		return View{}, err
	}
	rows, err := r.reports.GroupBy(ctx, repository.DimDistrict, f, repository.OrderByKey)
	if err != nil {
		return View{}, err
	}

	lines := []string{
		"🏢 " + render.Text(name),
		"",
		fmt.Sprintf("🔢 Projects: %d", totals.Count),
		"💰 Total value: " + render.Value(totals.TotalValue),
		"📈 Period value: " + render.Value(totals.PeriodValue),
		"",
		"🗺 By district:",
	}
	keyboard := make([][]Button, 0, len(rows)+2)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("  %s: %d", row.Key, row.Count))
		keyboard = append(keyboard, []Button{{
			Label:   fmt.Sprintf("%s (%d)", row.Key, row.Count),
			Command: Format("corpdist", name, row.Key, "0"),
		}})
	}
	keyboard = append(keyboard, backRow("corp"), rootRow())
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) enterpriseDistrictView(ctx context.Context, name, district string, page int) (View, error) {
	title := fmt.Sprintf("🏢 %s · %s", render.Text(name), render.Text(district))
	f := repository.Filter{Enterprise: name, District: district}
	back := []Button{{Label: "⬅️ Back", Command: Format("corp", name)}}
	return r.recordListView(ctx, title, f, false, Format("corpdist", name, district), page, back)
}

func (r *Router) districtMenu(ctx context.Context) (View, error) {
	return r.districtPicker(ctx, repository.ProjectTypeAny)
}

func (r *Router) districtPicker(ctx context.Context, ptype repository.ProjectTypeFilter) (View, error) {
	f := repository.Filter{ProjectType: ptype}
	rows, err := r.reports.GroupBy(ctx, repository.DimDistrict, f, repository.OrderByKey)
	if err != nil {
		return View{}, err
	}

	title := "🗺 Projects by district"
	switch ptype {
	case repository.ProjectTypeNew:
		title = "🆕 New projects by district"
	case repository.ProjectTypeContinuing:
		title = "♻️ Continuing projects by district"
	}

	lines := []string{title, ""}
	keyboard := make([][]Button, 0, len(rows)+1)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %d (%s)", row.Key, row.Count, render.Value(row.TotalValue)))
		keyboard = append(keyboard, []Button{{
			Label:   fmt.Sprintf("%s (%d)", row.Key, row.Count),
			Command: Format("dist", row.Key, "0"),
		}})
	}
	keyboard = append(keyboard, rootRow())
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) districtView(ctx context.Context, district string, page int, ptype repository.ProjectTypeFilter) (View, error) {
	title := "🗺 " + render.Text(district)
	f := repository.Filter{District: district, ProjectType: ptype}
	return r.recordListView(ctx, title, f, false, Format("dist", district), page, backRow("district"))
}

func (r *Router) statusView(ctx context.Context) (View, error) {
	rows, err := r.reports.GroupBy(ctx, repository.DimStatus, repository.Filter{WithStatus: true}, repository.OrderByCountDesc)
	if err != nil {
		return View{}, err
	}

	lines := []string{"📋 Projects by status", ""}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %d (%s)", row.Key, row.Count, render.Value(row.TotalValue)))
	}
	if len(rows) == 0 {
		lines = append(lines, "No status data.")
	}
	return View{Text: render.Lines(lines, r.maxText), Keyboard: [][]Button{rootRow()}}, nil
}

func (r *Router) zoneView(ctx context.Context) (View, error) {
	rows, err := r.reports.GroupBy(ctx, repository.DimZone, repository.Filter{}, repository.OrderByKey)
	if err != nil {
		return View{}, err
	}

	lines := []string{"🧭 Projects by zone", ""}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %d (%s)", row.Key, row.Count, render.Value(row.TotalValue)))
	}
	if len(rows) == 0 {
		lines = append(lines, "No zone data.")
	}
	return View{Text: render.Lines(lines, r.maxText), Keyboard: [][]Button{rootRow()}}, nil
}

func (r *Router) partnerCountryView(ctx context.Context) (View, error) {
	rows, err := r.reports.GroupBy(ctx, repository.DimPartnerCountry, repository.Filter{}, repository.OrderByCountDesc)
	if err != nil {
		return View{}, err
	}

	lines := []string{"🌍 Projects by partner country", ""}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %d (%s)", row.Key, row.Count, render.Value(row.TotalValue)))
	}
	if len(rows) == 0 {
		lines = append(lines, "No partner data.")
	}
	return View{Text: render.Lines(lines, r.maxText), Keyboard: [][]Button{rootRow()}}, nil
}

func (r *Router) problemListView(ctx context.Context, page int) (View, error) {
	f := repository.Filter{OnlyProblems: true}
	return r.recordListView(ctx, "⚠️ Problem projects", f, true, "prob", page, nil)
}

func (r *Router) problemDistrictMenu(ctx context.Context) (View, error) {
	rows, err := r.reports.GroupBy(ctx, repository.DimDistrict, repository.Filter{OnlyProblems: true}, repository.OrderByCountDesc)
	if err != nil {
		return View{}, err
	}

	lines := []string{"🗺 Problem projects by district", ""}
	keyboard := make([][]Button, 0, len(rows)+1)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %d", row.Key, row.Count))
		keyboard = append(keyboard, []Button{{
			Label:   fmt.Sprintf("%s (%d)", row.Key, row.Count),
			Command: Format("probdist", row.Key, "0"),
		}})
	}
	keyboard = append(keyboard, rootRow())
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) problemDistrictDetailView(ctx context.Context, district string, page int) (View, error) {
	title := "⚠️ Problems in " + render.Text(district)
	f := repository.Filter{District: district, OnlyProblems: true}
	back := []Button{{Label: "⬅️ Back", Command: Format("menu", "probdist")}}
	return r.recordListView(ctx, title, f, true, Format("probdist", district), page, back)
}

func (r *Router) sizeView(ctx context.Context, bucket string) (View, error) {
	f := repository.Filter{Size: record.SizeBucket(bucket)}
	totals, err := r.reports.Totals(ctx, f)
	if err != nil {
		return View{}, err
	}
	rows, err := r.reports.GroupBy(ctx, repository.DimDistrict, f, repository.OrderByKey)
	if err != nil {
		return View{}, err
	}

	lines := []string{
		sizeTitle(record.SizeBucket(bucket)),
		"",
		fmt.Sprintf("🔢 Projects: %d", totals.Count),
		"💰 Total value: " + render.Value(totals.TotalValue),
		"",
		"🗺 By district:",
	}
	keyboard := make([][]Button, 0, len(rows)+1)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("  %s: %d", row.Key, row.Count))
		keyboard = append(keyboard, []Button{{
			Label:   fmt.Sprintf("%s (%d)", row.Key, row.Count),
			Command: Format("sizedist", bucket, row.Key, "0"),
		}})
	}
	keyboard = append(keyboard, rootRow())
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) sizeDistrictView(ctx context.Context, bucket, district string, page int) (View, error) {
	title := fmt.Sprintf("%s · %s", sizeTitle(record.SizeBucket(bucket)), render.Text(district))
	f := repository.Filter{Size: record.SizeBucket(bucket), District: district}
	back := []Button{{Label: "⬅️ Back", Command: Format("size", bucket)}}
	return r.recordListView(ctx, title, f, false, Format("sizedist", bucket, district), page, back)
}

func sizeTitle(b record.SizeBucket) string {
	switch b {
	case record.SizeSmall:
		return "🤏 Small projects"
	case record.SizeMedium:
		return "🤝 Medium projects"
	case record.SizeLarge:
		return "💪 Large projects"
	default:
		return "📦 Projects"
	}
}

func (r *Router) deadlineMenu(ctx context.Context) (View, error) {
	stats, err := r.deadlines.Analyze(ctx, r.now())
	if err != nil {
		return View{}, err
	}

	keyboard := [][]Button{
		{
			{Label: fmt.Sprintf("🔴 Expired (%d)", stats.Expired), Command: Format("dl", "expired", "0")},
			{Label: fmt.Sprintf("🟠 Urgent (%d)", stats.Urgent), Command: Format("dl", "urgent", "0")},
		},
		{{Label: "📋 All with deadline", Command: Format("dl", "all", "0")}},
		rootRow(),
	}
	return View{Text: render.Lines(render.DeadlineSummary(stats), r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) deadlineListView(ctx context.Context, kind string, page int) (View, error) {
	f := repository.Filter{OnlyProblems: true, Today: r.now()}
	var title string
	switch kind {
	case "expired":
		title = "🔴 Expired deadlines"
		f.Deadline = record.DeadlineExpired
	case "urgent":
		title = "🟠 Urgent deadlines"
		f.Deadline = record.DeadlineUrgent
	case "all":
		title = "📋 Problem projects with a deadline"
		f.WithDeadline = true
	default:
		return View{}, ErrBadCommand
	}
	back := []Button{{Label: "⬅️ Back", Command: Format("back", "deadlines")}}
	return r.recordListView(ctx, title, f, true, Format("dl", kind), page, back)
}

func (r *Router) employeeMenu(ctx context.Context) (View, error) {
	keyboard := [][]Button{
		{{Label: "🏛 Organization responsibles", Command: Format("menu", "orglist")}},
		{{Label: "🗺 Region responsibles", Command: Format("menu", "reglist")}},
		rootRow(),
	}
	return View{Text: "👥 Responsible employees", Keyboard: keyboard}, nil
}

func (r *Router) responsibleListView(ctx context.Context, kind repository.ResponsibleKind) (View, error) {
	rows, err := r.reports.ResponsibleStats(ctx, kind, 0)
	if err != nil {
		return View{}, err
	}

	title := "🏛 Organization responsibles"
	if kind == repository.ResponsibleRegion {
		title = "🗺 Region responsibles"
	}
	lines := []string{title, ""}
	keyboard := make([][]Button, 0, len(rows)+1)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %d projects, %d problems (%s)",
			row.Name, row.Count, row.Problems, render.Value(row.TotalValue)))
		keyboard = append(keyboard, []Button{{
			Label:   fmt.Sprintf("%s (%d)", row.Name, row.Count),
			Command: Format("emp", string(kind), row.Name, "0"),
		}})
	}
	keyboard = append(keyboard, backRow("employees"), rootRow())
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}

func (r *Router) responsibleDetailView(ctx context.Context, kindArg, name string, page int) (View, error) {
	f := repository.Filter{}
	switch repository.ResponsibleKind(kindArg) {
	case repository.ResponsibleOrg:
		f.OrgResponsible = name
	case repository.ResponsibleRegion:
		f.RegionResponsible = name
	default:
		return View{}, ErrBadCommand
	}
	title := "👤 " + render.Text(name)
	back := []Button{{Label: "⬅️ Back", Command: Format("back", "employees")}}
	return r.recordListView(ctx, title, f, false, Format("emp", kindArg, name), page, back)
}

// recordListView renders one page of records matching a filter.
// problemOrder selects the problem ordering (deadline ascending, records
// without a deadline last) over the default total-value ordering.
func (r *Router) recordListView(ctx context.Context, title string, f repository.Filter, problemOrder bool, pagerPrefix string, page int, back []Button) (View, error) {
	totals, err := r.reports.Totals(ctx, f)
	if err != nil {
		return View{}, err
	}
	pg := report.Paginate(totals.Count, page, r.pageSize)

	var recs []record.ProjectRecord
	if problemOrder {
		recs, err = r.reports.ProblemSubset(ctx, f, pg.Size, pg.Index*pg.Size)
	} else {
		recs, err = r.reports.List(ctx, f, pg.Size, pg.Index*pg.Size)
	}
	if err != nil {
		return View{}, err
	}

	today := r.now()
	lines := []string{title, ""}
	if len(recs) == 0 {
		lines = append(lines, "Nothing here.")
	}
	for i, rec := range recs {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, render.RecordBlock(rec, today)...)
	}
	if totals.Count > pg.Size && pg.Size > 0 {
		pages := (totals.Count + pg.Size - 1) / pg.Size
		lines = append(lines, "", fmt.Sprintf("Page %d/%d · %d projects", pg.Index+1, pages, totals.Count))
	}

	var keyboard [][]Button
	if pg.HasPrev || pg.HasNext {
		keyboard = append(keyboard, pagerRow(pagerPrefix, pg.Index, pg.HasPrev, pg.HasNext))
	}
	if back != nil {
		keyboard = append(keyboard, back)
	}
	keyboard = append(keyboard, rootRow())
	return View{Text: render.Lines(lines, r.maxText), Keyboard: keyboard}, nil
}
