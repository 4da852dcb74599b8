package calc

import "sort"

type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// LeftoverPiece is a remnant kept from an earlier job.
type LeftoverPiece struct {
	ID                  string      `json:"id"`
	FabricID            string      `json:"fabric_id"`
	Orientation         Orientation `json:"orientation"`
	LengthCm            float64     `json:"length_cm"`
	SourceTreatmentName string      `json:"source_treatment_name"`
}

// LeftoverSelection records the user's decision on a suggested piece.
// Only a confirmed selection affects pricing.
type LeftoverSelection struct {
	PieceID   string `json:"piece_id"`
	Confirmed bool   `json:"confirmed"`
}

// RequiredLength is the length a remnant must have for q. Vertical pieces
// run along the drop, horizontal (railroaded) pieces along the width.
func RequiredLength(q FabricQuantity, o Orientation) float64 {
	if o == Horizontal {
		return q.WidthRequired
	}
	return q.DropRequired
}

// MatchLeftovers returns the pieces of fabricID in orientation o that are
// at least required long, shortest first so the least fabric is wasted.
func MatchLeftovers(pool []LeftoverPiece, fabricID string, o Orientation, required float64) []LeftoverPiece {
	var matches []LeftoverPiece
	for _, p := range pool {
		if p.FabricID != fabricID || p.Orientation != o {
			continue
		}
		if p.LengthCm < required {
			continue
		}
		matches = append(matches, p)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].LengthCm != matches[j].LengthCm {
			return matches[i].LengthCm < matches[j].LengthCm
		}
		return matches[i].ID < matches[j].ID
	})

	return matches
}

// SuggestLeftover returns the smallest piece that fits. It is a suggestion
// only; nothing is used until the user confirms it.
func SuggestLeftover(pool []LeftoverPiece, fabricID string, o Orientation, required float64) (LeftoverPiece, bool) {
	matches := MatchLeftovers(pool, fabricID, o, required)
	if len(matches) == 0 {
		return LeftoverPiece{}, false
	}
	return matches[0], true
}
