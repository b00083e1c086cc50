package ingest

import (
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/normalize"
)

// Schema names the spreadsheet columns by position. The sheet layout is
// fixed; indexes follow the worksheet the bot was built against.
type Schema struct {
	Name              int `yaml:"name"`
	Enterprise        int `yaml:"enterprise"`
	ProjectType       int `yaml:"project_type"`
	District          int `yaml:"district"`
	Zone              int `yaml:"zone"`
	TotalValue        int `yaml:"total_value"`
	PeriodValue       int `yaml:"period_value"`
	SizeLabel         int `yaml:"size_label"`
	Partner           int `yaml:"partner"`
	PartnerCountry    int `yaml:"partner_country"`
	Status            int `yaml:"status"`
	Problem           int `yaml:"problem"`
	OrgResponsible    int `yaml:"org_responsible"`
	RegionResponsible int `yaml:"region_responsible"`
	Deadline          int `yaml:"deadline"`
}

// DefaultSchema matches the production worksheet column layout.
func DefaultSchema() Schema {
	return Schema{
		Name:              1,
		Enterprise:        2,
		ProjectType:       3,
		District:          5,
		Zone:              6,
		TotalValue:        13,
		SizeLabel:         14,
		PeriodValue:       16,
		Partner:           11,
		PartnerCountry:    12,
		Status:            27,
		Problem:           28,
		OrgResponsible:    29,
		RegionResponsible: 30,
		Deadline:          32,
	}
}

// MinColumns is the narrowest row the schema can address.
func (s Schema) MinColumns() int {
	max := 0
	for _, idx := range []int{
		s.Name, s.Enterprise, s.ProjectType, s.District, s.Zone,
		s.TotalValue, s.PeriodValue, s.SizeLabel, s.Partner,
		s.PartnerCountry, s.Status, s.Problem, s.OrgResponsible,
		s.RegionResponsible, s.Deadline,
	} {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

// Row normalizes one raw spreadsheet row into a project record. Total:
// defective cells fall back to defaults, never an error.
func (s Schema) Row(cells []string) record.ProjectRecord {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(cells) {
			return ""
		}
		return cells[idx]
	}

	rec := record.ProjectRecord{
		Name:              normalize.Text(cell(s.Name)),
		Enterprise:        normalize.Text(cell(s.Enterprise)),
		ProjectType:       normalize.Text(cell(s.ProjectType)),
		District:          normalize.Text(cell(s.District)),
		Zone:              normalize.Text(cell(s.Zone)),
		TotalValue:        normalize.Number(cell(s.TotalValue)),
		PeriodValue:       normalize.Number(cell(s.PeriodValue)),
		Size:              normalize.Size(cell(s.SizeLabel)),
		Partner:           normalize.Text(cell(s.Partner)),
		PartnerCountry:    normalize.Text(cell(s.PartnerCountry)),
		Status:            normalize.Text(cell(s.Status)),
		Problem:           normalize.Problem(cell(s.Problem)),
		OrgResponsible:    normalize.Text(cell(s.OrgResponsible)),
		RegionResponsible: normalize.Text(cell(s.RegionResponsible)),
	}
	if d, ok := normalize.Date(cell(s.Deadline)); ok {
		deadline := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		rec.Deadline = &deadline
	}
	return rec
}
