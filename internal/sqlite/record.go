package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/repository"
)

const dayLayout = "2006-01-02"

// RecordRepository implements repository.RecordRepository for SQLite
type RecordRepository struct {
	db *DB
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// ReplaceAll swaps the snapshot in a single transaction: delete everything,
// bulk-insert the new set. Readers never observe a partial mix.
func (r *RecordRepository) ReplaceAll(ctx context.Context, recs []record.ProjectRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (
			name, enterprise, project_type, kind, district, zone,
			total_value, period_value, size, partner, partner_country,
			status, problem, org_responsible, region_responsible, deadline
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		var deadline any
		if rec.Deadline != nil {
			deadline = rec.Deadline.Format(dayLayout)
		}
		kind := ""
		switch {
		case rec.IsNew():
			kind = string(repository.ProjectTypeNew)
		case rec.IsContinuing():
			kind = string(repository.ProjectTypeContinuing)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.Name,
			rec.Enterprise,
			rec.ProjectType,
			kind,
			rec.District,
			rec.Zone,
			rec.TotalValue,
			rec.PeriodValue,
			string(rec.Size),
			rec.Partner,
			rec.PartnerCountry,
			rec.Status,
			rec.Problem,
			rec.OrgResponsible,
			rec.RegionResponsible,
			deadline,
		); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}
	return nil
}

// Totals aggregates count and value sums over the filtered records.
func (r *RecordRepository) Totals(ctx context.Context, f repository.Filter) (repository.Totals, error) {
	where, args := buildWhere(f)
	query := `
		SELECT COUNT(*), COALESCE(SUM(total_value), 0), COALESCE(SUM(period_value), 0)
		FROM projects` + where

	var t repository.Totals
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&t.Count, &t.TotalValue, &t.PeriodValue); err != nil {
		return repository.Totals{}, fmt.Errorf("failed to compute totals: %w", err)
	}
	return t, nil
}

// GroupBy aggregates per distinct value of the chosen dimension. Rows with
// an absent key are excluded.
func (r *RecordRepository) GroupBy(ctx context.Context, dim repository.Dimension, f repository.Filter, order repository.GroupOrder) ([]repository.GroupRow, error) {
	col, ok := dimensionColumns[dim]
	if !ok {
		return nil, fmt.Errorf("%w: unknown dimension %q", repository.ErrInvalidInput, dim)
	}

	where, args := buildWhere(f)
	if where == "" {
		where = " WHERE " + col + " != ''"
	} else {
		where += " AND " + col + " != ''"
	}

	orderBy := col + " ASC"
	if order == repository.OrderByCountDesc {
		orderBy = "COUNT(*) DESC, SUM(total_value) DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*), COALESCE(SUM(total_value), 0), COALESCE(SUM(period_value), 0)
		FROM projects%s
		GROUP BY %s
		ORDER BY %s
	`, col, where, col, orderBy)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", dim, err)
	}
	defer rows.Close()

	var groups []repository.GroupRow
	for rows.Next() {
		var g repository.GroupRow
		if err := rows.Scan(&g.Key, &g.Count, &g.TotalValue, &g.PeriodValue); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

// TopN returns the n highest-valued records matching the filter.
func (r *RecordRepository) TopN(ctx context.Context, f repository.Filter, n int) ([]record.ProjectRecord, error) {
	return r.List(ctx, f, n, 0)
}

// List pages through filtered records ordered by total value descending.
func (r *RecordRepository) List(ctx context.Context, f repository.Filter, limit, offset int) ([]record.ProjectRecord, error) {
	where, args := buildWhere(f)
	query := selectColumns + where + " ORDER BY total_value DESC"
	query, args = addPaging(query, args, limit, offset)
	return r.queryRecords(ctx, query, args)
}

// ProblemRecords pages through the problem subset: records with no deadline
// last, the rest by ascending deadline, descending total value as tie-break.
func (r *RecordRepository) ProblemRecords(ctx context.Context, f repository.Filter, limit, offset int) ([]record.ProjectRecord, error) {
	f.OnlyProblems = true
	where, args := buildWhere(f)
	query := selectColumns + where + `
		ORDER BY
			CASE WHEN deadline IS NULL THEN 1 ELSE 0 END,
			deadline ASC,
			total_value DESC`
	query, args = addPaging(query, args, limit, offset)
	return r.queryRecords(ctx, query, args)
}

// Districts lists distinct district names alphabetically.
func (r *RecordRepository) Districts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT district FROM projects WHERE district != '' ORDER BY district")
	if err != nil {
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}
	defer rows.Close()

	var districts []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan district: %w", err)
		}
		districts = append(districts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating districts: %w", err)
	}
	return districts, nil
}

// ResponsibleStats aggregates projects per responsible party, most loaded
// first.
func (r *RecordRepository) ResponsibleStats(ctx context.Context, kind repository.ResponsibleKind, limit int) ([]repository.ResponsibleRow, error) {
	col := "org_responsible"
	if kind == repository.ResponsibleRegion {
		col = "region_responsible"
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*),
		       COALESCE(SUM(total_value), 0), COALESCE(SUM(period_value), 0),
		       COUNT(CASE WHEN problem != '' THEN 1 END)
		FROM projects
		WHERE %s != ''
		GROUP BY %s
		ORDER BY COUNT(*) DESC, SUM(total_value) DESC
	`, col, col, col)
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate responsibles: %w", err)
	}
	defer rows.Close()

	var stats []repository.ResponsibleRow
	for rows.Next() {
		var row repository.ResponsibleRow
		if err := rows.Scan(&row.Name, &row.Count, &row.TotalValue, &row.PeriodValue, &row.Problems); err != nil {
			return nil, fmt.Errorf("failed to scan responsible row: %w", err)
		}
		stats = append(stats, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating responsible rows: %w", err)
	}
	return stats, nil
}

const selectColumns = `
	SELECT id, name, enterprise, project_type, district, zone,
	       total_value, period_value, size, partner, partner_country,
	       status, problem, org_responsible, region_responsible, deadline
	FROM projects`

var dimensionColumns = map[repository.Dimension]string{
	repository.DimDistrict:          "district",
	repository.DimZone:              "zone",
	repository.DimEnterprise:        "enterprise",
	repository.DimStatus:            "status",
	repository.DimSize:              "size",
	repository.DimPartnerCountry:    "partner_country",
	repository.DimOrgResponsible:    "org_responsible",
	repository.DimRegionResponsible: "region_responsible",
}

func buildWhere(f repository.Filter) (string, []any) {
	var conds []string
	var args []any

	eq := func(col, val string) {
		if val != "" {
			conds = append(conds, col+" = ?")
			args = append(args, val)
		}
	}
	eq("district", f.District)
	eq("enterprise", f.Enterprise)
	eq("status", f.Status)
	eq("size", string(f.Size))
	eq("kind", string(f.ProjectType))
	eq("org_responsible", f.OrgResponsible)
	eq("region_responsible", f.RegionResponsible)

	if f.OnlyProblems {
		conds = append(conds, "problem != ''")
	}

	today := f.Today.Format(dayLayout)
	horizon := f.Today.AddDate(0, 0, record.UrgentWindowDays).Format(dayLayout)
	switch f.Deadline {
	case record.DeadlineExpired:
		conds = append(conds, "deadline IS NOT NULL AND deadline < ?")
		args = append(args, today)
	case record.DeadlineUrgent:
		conds = append(conds, "deadline IS NOT NULL AND deadline >= ? AND deadline <= ?")
		args = append(args, today, horizon)
	case record.DeadlineUpcoming:
		conds = append(conds, "deadline IS NOT NULL AND deadline > ?")
		args = append(args, horizon)
	case record.DeadlineUnset:
		conds = append(conds, "deadline IS NULL")
	}
	if f.WithDeadline {
		conds = append(conds, "deadline IS NOT NULL")
	}
	if f.WithStatus {
		conds = append(conds, "status != ''")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func addPaging(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}
	return query, args
}

func (r *RecordRepository) queryRecords(ctx context.Context, query string, args []any) ([]record.ProjectRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var recs []record.ProjectRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return recs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (record.ProjectRecord, error) {
	var rec record.ProjectRecord
	var size string
	var deadline *string
	err := s.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Enterprise,
		&rec.ProjectType,
		&rec.District,
		&rec.Zone,
		&rec.TotalValue,
		&rec.PeriodValue,
		&size,
		&rec.Partner,
		&rec.PartnerCountry,
		&rec.Status,
		&rec.Problem,
		&rec.OrgResponsible,
		&rec.RegionResponsible,
		&deadline,
	)
	if err != nil {
		return record.ProjectRecord{}, fmt.Errorf("failed to scan record: %w", err)
	}
	rec.Size = record.SizeBucket(size)
	if deadline != nil {
		d, err := time.Parse(dayLayout, *deadline)
		if err != nil {
			return record.ProjectRecord{}, fmt.Errorf("failed to parse stored deadline: %w", err)
		}
		rec.Deadline = &d
	}
	return rec, nil
}
