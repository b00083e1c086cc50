package repository

import (
	"context"
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/record"
)

// Dimension is a categorical field records can be grouped by.
type Dimension string

const (
	DimDistrict          Dimension = "district"
	DimZone              Dimension = "zone"
	DimEnterprise        Dimension = "enterprise"
	DimStatus            Dimension = "status"
	DimSize              Dimension = "size"
	DimPartnerCountry    Dimension = "partner_country"
	DimOrgResponsible    Dimension = "org_responsible"
	DimRegionResponsible Dimension = "region_responsible"
)

// GroupOrder controls group-by result ordering.
type GroupOrder int

const (
	// OrderByKey sorts groups alphabetically (geographic dimensions).
	OrderByKey GroupOrder = iota
	// OrderByCountDesc sorts groups by descending count (organizational
	// dimensions), total value descending as tie-break.
	OrderByCountDesc
)

// ProjectTypeFilter narrows records to newly started or carried-over projects.
type ProjectTypeFilter string

const (
	ProjectTypeAny        ProjectTypeFilter = ""
	ProjectTypeNew        ProjectTypeFilter = "new"
	ProjectTypeContinuing ProjectTypeFilter = "continuing"
)

// Filter narrows record queries. Zero values mean "no constraint".
type Filter struct {
	District          string
	Enterprise        string
	Status            string
	Size              record.SizeBucket
	ProjectType       ProjectTypeFilter
	OrgResponsible    string
	RegionResponsible string

	// OnlyProblems keeps records whose problem label is not a
	// "no problem" sentinel.
	OnlyProblems bool

	// Deadline narrows records by deadline bucket relative to Today.
	// The zero value means no constraint; record.DeadlineUnset selects
	// records without a deadline.
	Deadline record.DeadlineBucket
	Today    time.Time

	// WithDeadline keeps only records that have any deadline set.
	WithDeadline bool

	// WithStatus keeps only records whose status label is present.
	WithStatus bool
}

// Totals is an ungrouped aggregate over the filtered records.
type Totals struct {
	Count       int
	TotalValue  float64
	PeriodValue float64
}

// GroupRow is one aggregation result: a grouping key with its stats.
type GroupRow struct {
	Key         string
	Count       int
	TotalValue  float64
	PeriodValue float64
}

// ResponsibleKind selects which responsible-party column to aggregate.
type ResponsibleKind string

const (
	ResponsibleOrg    ResponsibleKind = "org"
	ResponsibleRegion ResponsibleKind = "region"
)

// ResponsibleRow aggregates projects per responsible party.
type ResponsibleRow struct {
	Name        string
	Count       int
	TotalValue  float64
	PeriodValue float64
	Problems    int
}

// RecordRepository manages the project record snapshot.
type RecordRepository interface {
	// ReplaceAll swaps the entire snapshot in one transaction. Readers see
	// either the complete old set or the complete new one.
	ReplaceAll(ctx context.Context, recs []record.ProjectRecord) error

	Totals(ctx context.Context, f Filter) (Totals, error)
	GroupBy(ctx context.Context, dim Dimension, f Filter, order GroupOrder) ([]GroupRow, error)
	// TopN returns the n highest-valued records matching the filter.
	TopN(ctx context.Context, f Filter, n int) ([]record.ProjectRecord, error)
	// List pages through records ordered by total value descending.
	// limit <= 0 means no limit.
	List(ctx context.Context, f Filter, limit, offset int) ([]record.ProjectRecord, error)
	// ProblemRecords pages through the problem subset: no-deadline records
	// last, then ascending deadline, then descending total value.
	ProblemRecords(ctx context.Context, f Filter, limit, offset int) ([]record.ProjectRecord, error)
	Districts(ctx context.Context) ([]string, error)
	ResponsibleStats(ctx context.Context, kind ResponsibleKind, limit int) ([]ResponsibleRow, error)
}
