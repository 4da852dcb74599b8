package storage

import "drapecost/internal/calc"

// BusinessSettings are the account-wide defaults used by every estimate.
type BusinessSettings struct {
	LaborRate  float64         `json:"labor_rate"`
	Unit       calc.Unit       `json:"unit"`
	PriceBasis calc.PriceBasis `json:"price_basis"`
	Currency   string          `json:"currency"`
}
