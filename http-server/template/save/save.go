package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

type TemplateCreateProvider interface {
	CreateTemplateAdmin(ctx context.Context, res storage.TemplateAdmin) error
}

// Request is the admin form for a treatment template.
type Request struct {
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Category      string                 `json:"category"`
	PricingMethod calc.PricingMethod     `json:"pricing_method"`
	BaseRate      float64                `json:"base_rate"`
	PricingGridID *int64                 `json:"pricing_grid_id"`
	FullnessRatio *float64               `json:"fullness_ratio"`
	Hems          *calc.HemConfiguration `json:"hems"`
	IsActive      bool                   `json:"is_active"`
}

// Validate checks the fields that do not depend on the template code.
func (req Request) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("field name is required")
	}
	if !req.PricingMethod.Valid() {
		return fmt.Errorf("unknown pricing_method %q", req.PricingMethod)
	}
	if req.PricingMethod == calc.MethodPricingGrid && req.PricingGridID == nil {
		return errors.New("pricing_grid_id is required for pricing_grid templates")
	}
	if req.BaseRate < 0 {
		return errors.New("base_rate must not be negative")
	}
	if req.FullnessRatio != nil && *req.FullnessRatio <= 0 {
		return errors.New("fullness_ratio must be positive")
	}
	return nil
}

// Admin converts the form into the storage row, serializing hems.
func (req Request) Admin(code string) (storage.TemplateAdmin, error) {
	var hems string
	if req.Hems != nil {
		b, err := json.Marshal(req.Hems)
		if err != nil {
			return storage.TemplateAdmin{}, err
		}
		hems = string(b)
	}

	return storage.TemplateAdmin{
		Code:          code,
		Name:          strings.TrimSpace(req.Name),
		Category:      req.Category,
		PricingMethod: string(req.PricingMethod),
		BaseRate:      req.BaseRate,
		PricingGridID: req.PricingGridID,
		FullnessRatio: req.FullnessRatio,
		Hems:          hems,
		IsActive:      req.IsActive,
	}, nil
}

func SaveTemplateAdmin(log *slog.Logger, temp TemplateCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.SaveTemplateAdmin"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		code := strings.TrimSpace(req.Code)
		if code == "" {
			http.Error(w, "field code is required", http.StatusBadRequest)
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

		err = temp.CreateTemplateAdmin(ctx, row)
		if err != nil {
			if errors.Is(err, storage.ErrExists) {
				http.Error(w, "template code already exists", http.StatusConflict)
				return
			}
			log.Error(fmt.Sprintf("%s: %v", op, err))
			http.Error(w, "failed to create template", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "created"})
	}
}
