package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

type SettingsUpdater interface {
	UpdateBusinessSettings(ctx context.Context, bs storage.BusinessSettings) error
}

func UpdateSettingsAdmin(log *slog.Logger, update SettingsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateSettingsAdmin"

		var bs storage.BusinessSettings
		if err := json.NewDecoder(r.Body).Decode(&bs); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		bs.Currency = strings.ToUpper(strings.TrimSpace(bs.Currency))

		switch {
		case bs.LaborRate < 0:
			http.Error(w, "labor_rate must not be negative", http.StatusBadRequest)
			return
		case !bs.Unit.Valid():
			http.Error(w, "unit must be mm, cm, m or inch", http.StatusBadRequest)
			return
		case bs.PriceBasis != calc.Metric && bs.PriceBasis != calc.Imperial:
			http.Error(w, "price_basis must be metric or imperial", http.StatusBadRequest)
			return
		case len(bs.Currency) != 3:
			http.Error(w, "currency must be a 3 letter code", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := update.UpdateBusinessSettings(ctx, bs); err != nil {
			log.Error("failed to update business settings", "op", op, "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
