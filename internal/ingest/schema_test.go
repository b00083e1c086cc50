package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shuhratov/loyihabot/internal/domain/record"
)

func TestDefaultSchemaMinColumns(t *testing.T) {
	// Deadline sits at index 32, so a usable row needs 33 cells.
	require.Equal(t, 33, DefaultSchema().MinColumns())
}

func TestSchemaRow(t *testing.T) {
	s := Schema{
		Name: 0, Enterprise: 1, ProjectType: 2, District: 3, Zone: 4,
		TotalValue: 5, PeriodValue: 6, SizeLabel: 7, Partner: 8,
		PartnerCountry: 9, Status: 10, Problem: 11, OrgResponsible: 12,
		RegionResponsible: 13, Deadline: 14,
	}

	rec := s.Row([]string{
		" Solar park ", "Beta", "янги лойиҳа", "Buxoro", "South",
		"1 200.5", "120", "Йирик", "ACME", "Germany",
		"building", "Yuq", "Rasulov", "Aliyev", "31.12.2025",
	})

	require.Equal(t, "Solar park", rec.Name)
	require.Equal(t, "Beta", rec.Enterprise)
	require.Equal(t, 1200.5, rec.TotalValue)
	require.Equal(t, record.SizeLarge, rec.Size)
	// "Yuq" is a no-problem sentinel.
	require.Equal(t, "", rec.Problem)
	require.NotNil(t, rec.Deadline)
	require.Equal(t, "2025-12-31", rec.Deadline.Format("2006-01-02"))
}

func TestSchemaRowShortRow(t *testing.T) {
	s := Schema{Name: 0, District: 3, Deadline: 14}

	rec := s.Row([]string{"Bakery"})
	require.Equal(t, "Bakery", rec.Name)
	require.Equal(t, "", rec.District)
	require.Nil(t, rec.Deadline)
	require.Zero(t, rec.TotalValue)
}

func TestSchemaRowBadDeadline(t *testing.T) {
	s := Schema{Name: 0, Deadline: 1}
	rec := s.Row([]string{"Bakery", "soon"})
	require.Nil(t, rec.Deadline)
}
