package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"drapecost/internal/service"
	"drapecost/internal/storage"
)

type Estimator interface {
	Estimate(ctx context.Context, req service.EstimateRequest) (*service.EstimateResponse, error)
}

// Estimate prices one treatment. Missing measurements are answered with
// status "insufficient_data" and a null result, not an error code.
func Estimate(log *slog.Logger, estimator Estimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.estimate.Estimate"

		var req service.EstimateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		resp, err := estimator.Estimate(ctx, req)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("estimate references unknown item")
				http.Error(w, "template or fabric not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to estimate")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, resp)
	}
}
