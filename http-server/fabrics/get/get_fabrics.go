package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"drapecost/internal/storage"
)

type FabricProvider interface {
	GetFabrics(ctx context.Context, kind string) ([]*storage.Fabric, error)
}

// GetFabrics lists active inventory; ?kind=fabric or ?kind=lining narrows
// the list, no kind returns both.
func GetFabrics(log *slog.Logger, fabrics FabricProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.fabrics.GetFabrics"

		kind := r.URL.Query().Get("kind")
		if kind != "" && kind != storage.KindFabric && kind != storage.KindLining {
			http.Error(w, "kind must be fabric or lining", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := fabrics.GetFabrics(ctx, kind)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch fabrics")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		if items == nil {
			items = []*storage.Fabric{}
		}

		render.JSON(w, r, items)
	}
}
