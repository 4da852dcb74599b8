package storage

import (
	"encoding/json"
	"time"

	"drapecost/internal/calc"
)

// PricingGrid is one uploaded version of a grid. Rows are never updated;
// a new upload under the same name gets the next version.
type PricingGrid struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Version   int             `json:"version"`
	Shape     calc.GridShape  `json:"shape"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// Decode returns the lookup for this grid. Rows saved before shapes were
// tagged are detected from their payload.
func (g *PricingGrid) Decode() (calc.PriceGrid, error) {
	shape := g.Shape
	if shape == "" {
		detected, err := calc.DetectShape(g.Data)
		if err != nil {
			return nil, err
		}
		shape = detected
	}
	return calc.DecodeGrid(shape, g.Data)
}
