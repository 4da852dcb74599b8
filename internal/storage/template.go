package storage

import "drapecost/internal/calc"

// Template is a treatment template: how a curtain, blind or shutter type
// is made up and priced.
type Template struct {
	ID            int64                  `json:"id"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Category      string                 `json:"category"`
	PricingMethod calc.PricingMethod     `json:"pricing_method"`
	BaseRate      float64                `json:"base_rate"`
	PricingGridID *int64                 `json:"pricing_grid_id"`
	FullnessRatio *float64               `json:"fullness_ratio"`
	Hems          *calc.HemConfiguration `json:"hems"`
	IsActive      bool                   `json:"is_active"`
}

// HemsOrDefault returns the template allowances, falling back to the
// house defaults when none were configured.
func (t *Template) HemsOrDefault() calc.HemConfiguration {
	if t == nil || t.Hems == nil {
		return calc.DefaultHems()
	}
	return *t.Hems
}

// TemplateAdmin is the row shape written by the admin panel; Hems is JSON.
type TemplateAdmin struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	PricingMethod string   `json:"pricing_method"`
	BaseRate      float64  `json:"base_rate"`
	PricingGridID *int64   `json:"pricing_grid_id"`
	FullnessRatio *float64 `json:"fullness_ratio"`
	Hems          string   `json:"hems"`
	IsActive      bool     `json:"is_active"`
}
