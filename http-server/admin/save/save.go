package save

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"drapecost/internal/calc"
	gridimport "drapecost/internal/service/grid-import"
	"drapecost/internal/storage"
)

const maxUploadSize = 10 << 20

type GridImporter interface {
	Import(ctx context.Context, name string, r io.Reader) (*storage.PricingGrid, error)
}

// UploadGridAdmin takes a multipart form with a "name" field and an xlsx
// "file" and stores it as the next version of that grid.
func UploadGridAdmin(log *slog.Logger, importer GridImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UploadGridAdmin"

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		grid, err := importer.Import(ctx, r.FormValue("name"), file)
		if err != nil {
			if errors.Is(err, calc.ErrBadGrid) || errors.Is(err, gridimport.ErrEmptySheet) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, storage.ErrExists) {
				http.Error(w, "grid version already exists, retry the upload", http.StatusConflict)
				return
			}
			log.Error("failed to import pricing grid", "op", op, "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("pricing grid uploaded",
			slog.String("op", op),
			slog.String("name", grid.Name),
			slog.Int("version", grid.Version),
			slog.Int64("id", grid.ID),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"id": grid.ID, "name": grid.Name, "version": grid.Version})
	}
}
