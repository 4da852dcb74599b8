package storage

import "drapecost/internal/calc"

const (
	KindFabric = "fabric"
	KindLining = "lining"
)

// Fabric is an inventory item that can be sold by length or area.
type Fabric struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	PricePerUnit float64         `json:"price_per_unit"`
	Unit         calc.PriceUnit  `json:"unit"`
	Basis        calc.PriceBasis `json:"basis"`
	WidthCm      float64         `json:"width_cm"`
	IsActive     bool            `json:"is_active"`
}

func (f *Fabric) Item() *calc.FabricItem {
	if f == nil {
		return nil
	}
	return &calc.FabricItem{
		ID:           f.ID,
		Name:         f.Name,
		PricePerUnit: f.PricePerUnit,
		Unit:         f.Unit,
		Basis:        f.Basis,
		WidthCm:      f.WidthCm,
	}
}
