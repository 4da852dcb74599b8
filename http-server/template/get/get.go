package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

type TemplateJSON interface {
	GetTemplateByCode(ctx context.Context, code string) (*storage.Template, error)
	GetAllTemplates(ctx context.Context) ([]*storage.Template, error)
}

type ResponseForm struct {
	ID            int64                 `json:"id"`
	Code          string                `json:"code"`
	Name          string                `json:"name"`
	Category      string                `json:"category"`
	PricingMethod calc.PricingMethod    `json:"pricing_method"`
	BaseRate      float64               `json:"base_rate"`
	PricingGridID *int64                `json:"pricing_grid_id"`
	FullnessRatio *float64              `json:"fullness_ratio"`
	Hems          calc.HemConfiguration `json:"hems"`
}

func GetTemplatesByCode(log *slog.Logger, template TemplateJSON) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetTemplatesByCode"

		code := r.URL.Query().Get("code")
		if code == "" {
			log.With(slog.String("op", op)).Error("Missing 'code' in query parameters")
			http.Error(w, "Missing required query parameter 'code'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		t, err := template.GetTemplateByCode(ctx, code)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.String("code", code)).Warn("Template not found")
				http.Error(w, "Template not found", http.StatusNotFound)
				return
			}

			log.With(
				slog.String("op", op),
				slog.String("code", code),
				slog.String("error", err.Error()),
			).Error("Failed to fetch template")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseForm{
			ID:            t.ID,
			Code:          t.Code,
			Name:          t.Name,
			Category:      t.Category,
			PricingMethod: t.PricingMethod,
			BaseRate:      t.BaseRate,
			PricingGridID: t.PricingGridID,
			FullnessRatio: t.FullnessRatio,
			Hems:          t.HemsOrDefault(),
		})
	}
}

type ResponseAllForm struct {
	Templates []*storage.Template `json:"templates"`
}

func GetAllTemplates(log *slog.Logger, template TemplateJSON) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetAllTemplates"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		templates, err := template.GetAllTemplates(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch templates")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if templates == nil {
			templates = []*storage.Template{}
		}

		render.JSON(w, r, ResponseAllForm{Templates: templates})
	}
}
