package storage

import (
	"time"

	"drapecost/internal/calc"
)

// Leftover is a stored remnant. UsedByQuote is set once a user confirmed
// it on a saved quote; rows are never deleted.
type Leftover struct {
	ID                  string           `json:"id"`
	FabricID            string           `json:"fabric_id"`
	Orientation         calc.Orientation `json:"orientation"`
	LengthCm            float64          `json:"length_cm"`
	SourceTreatmentName string           `json:"source_treatment_name"`
	UsedByQuote         *int64           `json:"used_by_quote"`
	UsedBy              *string          `json:"used_by"`
	UsedAt              *time.Time       `json:"used_at"`
	CreatedAt           time.Time        `json:"created_at"`
}

func (l Leftover) Piece() calc.LeftoverPiece {
	return calc.LeftoverPiece{
		ID:                  l.ID,
		FabricID:            l.FabricID,
		Orientation:         l.Orientation,
		LengthCm:            l.LengthCm,
		SourceTreatmentName: l.SourceTreatmentName,
	}
}

func Pieces(ls []*Leftover) []calc.LeftoverPiece {
	pieces := make([]calc.LeftoverPiece, 0, len(ls))
	for _, l := range ls {
		pieces = append(pieces, l.Piece())
	}
	return pieces
}
