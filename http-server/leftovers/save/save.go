package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"drapecost/internal/calc"
	"drapecost/internal/service"
)

type Request struct {
	FabricID            string           `json:"fabric_id"`
	Orientation         calc.Orientation `json:"orientation"`
	Length              calc.RawValue    `json:"length"`
	SourceTreatmentName string           `json:"source_treatment_name"`
}

// SaveLeftover records a remnant cut off a finished job. Length accepts
// the same unit suffixes as measurements and defaults to cm.
func SaveLeftover(log *slog.Logger, st service.LeftoverStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.leftovers.SaveLeftover"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		length, ok := calc.ParseCentimeters(string(req.Length))
		if !ok {
			http.Error(w, "invalid length", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := service.RecordLeftover(ctx, st, calc.LeftoverPiece{
			FabricID:            req.FabricID,
			Orientation:         req.Orientation,
			LengthCm:            length,
			SourceTreatmentName: req.SourceTreatmentName,
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidLeftover) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to save leftover")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]string{"status": "created", "id": id})
	}
}
