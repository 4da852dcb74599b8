package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"drapecost/internal/calc"
)

type LeftoverSuggester interface {
	SuggestLeftovers(ctx context.Context, fabricID string, o calc.Orientation, required float64) ([]calc.LeftoverPiece, error)
}

type Response struct {
	FabricID       string               `json:"fabric_id"`
	Orientation    calc.Orientation     `json:"orientation"`
	RequiredLength float64              `json:"required_length_cm"`
	Pieces         []calc.LeftoverPiece `json:"pieces"`
}

// SuggestLeftovers lists stored remnants long enough for required_length.
// The pieces are only suggestions; nothing is reserved.
func SuggestLeftovers(log *slog.Logger, leftovers LeftoverSuggester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.leftovers.SuggestLeftovers"

		q := r.URL.Query()

		fabricID := q.Get("fabric_id")
		if fabricID == "" {
			http.Error(w, "Missing required query parameter 'fabric_id'", http.StatusBadRequest)
			return
		}

		orientation := calc.Orientation(q.Get("orientation"))
		switch orientation {
		case "":
			orientation = calc.Vertical
		case calc.Vertical, calc.Horizontal:
		default:
			http.Error(w, "orientation must be vertical or horizontal", http.StatusBadRequest)
			return
		}

		required, ok := calc.ParseCentimeters(q.Get("required_length"))
		if !ok {
			http.Error(w, "invalid required_length", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		pieces, err := leftovers.SuggestLeftovers(ctx, fabricID, orientation, required)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch leftovers")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{
			FabricID:       fabricID,
			Orientation:    orientation,
			RequiredLength: required,
			Pieces:         pieces,
		})
	}
}
