package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"drapecost/http-server/template/save"
	"drapecost/internal/storage"
)

type TemplateUpdateProvider interface {
	UpdateTemplateAdmin(ctx context.Context, code string, update storage.TemplateAdmin) error
}

func UpdateTemplateAdmin(log *slog.Logger, temp TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.UpdateTemplateAdmin"

		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			http.Error(w, "missing template code", http.StatusBadRequest)
			return
		}

		var req save.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		row, err := req.Admin(code)
		if err != nil {
			log.Error(fmt.Sprintf("%s: marshal hems: %v", op, err))
			http.Error(w, "failed to process hems", http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = temp.UpdateTemplateAdmin(ctx, code, row)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "template not found", http.StatusNotFound)
				return
			}
			log.Error(fmt.Sprintf("%s: %v", op, err))
			http.Error(w, "failed to update template", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
