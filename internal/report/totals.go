package report

import "github.com/rshade/vsme-emissions/internal/carbon"

// Totals are summed emissions in kgCO2e.
type Totals struct {
	Scope1 float64 `json:"scope1"`
	Scope2 float64 `json:"scope2"`
	Scope3 float64 `json:"scope3"`
	Total  float64 `json:"total"`

	// Records is the number of records summed.
	Records int `json:"records"`

	// Degraded is the number of summed records that carry warnings.
	Degraded int `json:"degraded"`
}

// Aggregate sums records per scope. Records with an unknown scope count
// toward Total only.
func Aggregate(records []Record) Totals {
	var t Totals
	for _, r := range records {
		switch r.Scope {
		case carbon.Scope1:
			t.Scope1 += r.EmissionsKg
		case carbon.Scope2:
			t.Scope2 += r.EmissionsKg
		case carbon.Scope3:
			t.Scope3 += r.EmissionsKg
		}
		t.Total += r.EmissionsKg
		t.Records++
		if len(r.Warnings) > 0 {
			t.Degraded++
		}
	}
	return t
}

// Tonnes returns the totals converted to metric tonnes CO2e.
func (t Totals) Tonnes() Totals {
	return Totals{
		Scope1:   t.Scope1 / carbon.KgPerTonne,
		Scope2:   t.Scope2 / carbon.KgPerTonne,
		Scope3:   t.Scope3 / carbon.KgPerTonne,
		Total:    t.Total / carbon.KgPerTonne,
		Records:  t.Records,
		Degraded: t.Degraded,
	}
}
