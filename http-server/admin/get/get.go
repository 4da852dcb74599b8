package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"drapecost/internal/config"
	"drapecost/internal/storage"
)

type SettingsProvider interface {
	GetBusinessSettings(ctx context.Context) (*storage.BusinessSettings, error)
}

type GridProvider interface {
	GetPricingGrid(ctx context.Context, id int64) (*storage.PricingGrid, error)
}

// GetSettingsAdmin returns the saved business settings, or the configured
// defaults when nothing has been saved yet.
func GetSettingsAdmin(log *slog.Logger, settings SettingsProvider, defaults config.Defaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetSettingsAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		bs, err := settings.GetBusinessSettings(ctx)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to fetch business settings")
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
			bs = &storage.BusinessSettings{
				LaborRate:  defaults.LaborRate,
				Unit:       defaults.Unit,
				PriceBasis: defaults.PriceBasis,
				Currency:   defaults.Currency,
			}
		}

		render.JSON(w, r, bs)
	}
}

func GetGridAdmin(log *slog.Logger, grids GridProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetGridAdmin"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid grid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		grid, err := grids.GetPricingGrid(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "grid not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to fetch pricing grid")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, grid)
	}
}
