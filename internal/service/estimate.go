package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"drapecost/internal/calc"
	"drapecost/internal/config"
	"drapecost/internal/storage"
)

const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
)

type EstimateStorage interface {
	GetTemplateByCode(ctx context.Context, code string) (*storage.Template, error)
	GetFabricByID(ctx context.Context, id string) (*storage.Fabric, error)
	GetPricingGrid(ctx context.Context, id int64) (*storage.PricingGrid, error)
	GetBusinessSettings(ctx context.Context) (*storage.BusinessSettings, error)
	GetAvailableLeftovers(ctx context.Context, fabricID string) ([]*storage.Leftover, error)
}

type EstimateService struct {
	storage  EstimateStorage
	defaults config.Defaults
	log      *slog.Logger
}

func NewEstimateService(storage EstimateStorage, defaults config.Defaults, log *slog.Logger) *EstimateService {
	return &EstimateService{storage: storage, defaults: defaults, log: log}
}

// EstimateRequest is one treatment as entered by the user. FullnessRatio
// and Hems override the template when set; Orientation picks the leftover
// suggestions (vertical when empty).
type EstimateRequest struct {
	TemplateCode  string                  `json:"template"`
	Measurement   calc.RawMeasurement     `json:"measurement"`
	FabricID      string                  `json:"fabric_id"`
	LiningID      string                  `json:"lining_id"`
	FullnessRatio *float64                `json:"fullness_ratio"`
	Hems          *calc.HemConfiguration  `json:"hems"`
	Orientation   calc.Orientation        `json:"orientation"`
	Leftover      *calc.LeftoverSelection `json:"leftover"`
}

type EstimateResponse struct {
	Status      string               `json:"status"`
	Currency    string               `json:"currency"`
	Measurement *calc.Measurement    `json:"measurement"`
	Result      *calc.Result         `json:"result"`
	Suggestions []calc.LeftoverPiece `json:"leftover_suggestions"`
}

type estimateData struct {
	template  *storage.Template
	grid      *storage.PricingGrid
	fabric    *storage.Fabric
	lining    *storage.Fabric
	settings  storage.BusinessSettings
	leftovers []*storage.Leftover
}

func (s *EstimateService) load(ctx context.Context, req EstimateRequest) (*estimateData, error) {
	d := &estimateData{}

	g, gCtx := errgroup.WithContext(ctx)

	if req.TemplateCode != "" {
		g.Go(func() error {
			var err error
			d.template, err = s.storage.GetTemplateByCode(gCtx, req.TemplateCode)
			if err != nil {
				return fmt.Errorf("template: %w", err)
			}
			if d.template.PricingMethod != calc.MethodPricingGrid || d.template.PricingGridID == nil {
				return nil
			}
			d.grid, err = s.storage.GetPricingGrid(gCtx, *d.template.PricingGridID)
			if err != nil {
				return fmt.Errorf("pricing grid: %w", err)
			}
			return nil
		})
	}

	if req.FabricID != "" {
		g.Go(func() error {
			var err error
			d.fabric, err = s.storage.GetFabricByID(gCtx, req.FabricID)
			if err != nil {
				return fmt.Errorf("fabric: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			d.leftovers, err = s.storage.GetAvailableLeftovers(gCtx, req.FabricID)
			if err != nil {
				return fmt.Errorf("leftovers: %w", err)
			}
			return nil
		})
	}

	if req.LiningID != "" && req.LiningID != calc.LiningNone {
		g.Go(func() error {
			var err error
			d.lining, err = s.storage.GetFabricByID(gCtx, req.LiningID)
			if err != nil {
				return fmt.Errorf("lining: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		bs, err := s.storage.GetBusinessSettings(gCtx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				d.settings = s.defaultSettings()
				return nil
			}
			return fmt.Errorf("settings: %w", err)
		}
		d.settings = *bs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *EstimateService) defaultSettings() storage.BusinessSettings {
	return storage.BusinessSettings{
		LaborRate:  s.defaults.LaborRate,
		Unit:       s.defaults.Unit,
		PriceBasis: s.defaults.PriceBasis,
		Currency:   s.defaults.Currency,
	}
}

func (s *EstimateService) Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error) {
	const op = "service.estimate.Estimate"

	d, err := s.load(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := &EstimateResponse{
		Status:      StatusInsufficientData,
		Currency:    d.settings.Currency,
		Suggestions: []calc.LeftoverPiece{},
	}

	measurement, err := req.Measurement.Normalize(d.settings.Unit)
	if err != nil {
		return resp, nil
	}
	resp.Measurement = measurement

	in, err := s.buildInput(d, req, measurement)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var unavailable *calc.Warning
	if req.Leftover != nil {
		choice, ok := findLeftover(d.leftovers, *req.Leftover)
		if ok {
			in.Leftover = &choice
		} else {
			unavailable = &calc.Warning{
				Code:    calc.WarnLeftoverUnavailable,
				Message: "leftover piece " + req.Leftover.PieceID + " is not available",
			}
		}
	}

	result, err := calc.Estimate(in)
	if errors.Is(err, calc.ErrInsufficientData) {
		return resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if unavailable != nil {
		result.Warnings = append(result.Warnings, *unavailable)
	}
	if result.HasWarning(calc.WarnGridMiss) {
		s.log.Warn("pricing grid has no cell for treatment",
			slog.String("op", op),
			slog.String("template", req.TemplateCode),
			slog.Float64("width", measurement.RailWidth),
			slog.Float64("drop", measurement.Drop),
		)
	}

	resp.Status = StatusOK
	resp.Result = result

	if req.FabricID != "" && result.LeftoverUsed == "" {
		orientation := orientationOrDefault(req.Orientation)
		resp.Suggestions = nonNil(calc.MatchLeftovers(storage.Pieces(d.leftovers), req.FabricID, orientation,
			calc.RequiredLength(result.Breakdown.Fabric, orientation)))
	}

	return resp, nil
}

func (s *EstimateService) buildInput(d *estimateData, req EstimateRequest, m *calc.Measurement) (calc.Input, error) {
	in := calc.Input{
		Measurement: m,
		Hems:        d.template.HemsOrDefault(),
		Fabric:      withBasis(d.fabric.Item(), d.settings.PriceBasis),
		Pricing: calc.Pricing{
			Method:    calc.MethodLaborRate,
			LaborRate: d.settings.LaborRate,
		},
	}

	if d.lining != nil {
		in.Lining = withBasis(d.lining.Item(), d.settings.PriceBasis)
	}

	if d.template != nil {
		in.Fullness = d.template.FullnessRatio
		in.Pricing.Method = d.template.PricingMethod
		in.Pricing.BaseRate = d.template.BaseRate
	}
	if d.grid != nil {
		grid, err := d.grid.Decode()
		if err != nil {
			return calc.Input{}, fmt.Errorf("decode grid %d: %w", d.grid.ID, err)
		}
		in.Pricing.Grid = grid
	}

	if req.FullnessRatio != nil {
		in.Fullness = req.FullnessRatio
	}
	if req.Hems != nil {
		in.Hems = *req.Hems
	}

	return in, nil
}

// SuggestLeftovers lists the remnants of fabricID that are long enough,
// shortest first.
func (s *EstimateService) SuggestLeftovers(ctx context.Context, fabricID string, o calc.Orientation, required float64) ([]calc.LeftoverPiece, error) {
	const op = "service.estimate.SuggestLeftovers"

	leftovers, err := s.storage.GetAvailableLeftovers(ctx, fabricID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return nonNil(calc.MatchLeftovers(storage.Pieces(leftovers), fabricID, orientationOrDefault(o), required)), nil
}

func findLeftover(leftovers []*storage.Leftover, sel calc.LeftoverSelection) (calc.LeftoverChoice, bool) {
	for _, l := range leftovers {
		if l.ID == sel.PieceID {
			return calc.LeftoverChoice{Piece: l.Piece(), Confirmed: sel.Confirmed}, true
		}
	}
	return calc.LeftoverChoice{}, false
}

func withBasis(item *calc.FabricItem, basis calc.PriceBasis) *calc.FabricItem {
	if item != nil && item.Basis == "" {
		item.Basis = basis
	}
	return item
}

func orientationOrDefault(o calc.Orientation) calc.Orientation {
	if o == "" {
		return calc.Vertical
	}
	return o
}

func nonNil(p []calc.LeftoverPiece) []calc.LeftoverPiece {
	if p == nil {
		return []calc.LeftoverPiece{}
	}
	return p
}
