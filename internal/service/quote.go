package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

// ErrConfirmationRequired is returned when a quote uses a leftover piece
// without naming the person who confirmed it.
var ErrConfirmationRequired = errors.New("leftover use must be confirmed by a named user")

type QuoteStorage interface {
	SaveQuote(ctx context.Context, q storage.Quote) (int64, error)
}

type Estimator interface {
	Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error)
}

type QuoteService struct {
	estimator Estimator
	storage   QuoteStorage
}

func NewQuoteService(estimator Estimator, storage QuoteStorage) *QuoteService {
	return &QuoteService{estimator: estimator, storage: storage}
}

type QuoteRequest struct {
	EstimateRequest
	Customer    string `json:"customer"`
	ConfirmedBy string `json:"confirmed_by"`
}

type SavedQuote struct {
	ID        int64        `json:"id"`
	Reference string       `json:"reference"`
	Result    *calc.Result `json:"result"`
}

// SaveQuote prices the request again and stores it. Totals sent by the
// client are never trusted.
func (s *QuoteService) SaveQuote(ctx context.Context, req QuoteRequest) (*SavedQuote, error) {
	const op = "service.quote.SaveQuote"

	resp, err := s.estimator.Estimate(ctx, req.EstimateRequest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Status != StatusOK || resp.Result == nil || resp.Measurement == nil {
		return nil, fmt.Errorf("%s: %w", op, calc.ErrInsufficientData)
	}

	res := resp.Result

	q := storage.Quote{
		Reference:    uuid.NewString(),
		Customer:     strings.TrimSpace(req.Customer),
		TemplateCode: req.TemplateCode,
		FabricID:     req.FabricID,
		LiningID:     req.LiningID,
		Measurement:  *resp.Measurement,
		Result:       *res,
		Total:        decimal.NewFromFloat(res.Total).Round(2),
		ConfirmedBy:  strings.TrimSpace(req.ConfirmedBy),
	}

	if res.LeftoverUsed != "" {
		if q.ConfirmedBy == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrConfirmationRequired)
		}
		leftover := res.LeftoverUsed
		q.LeftoverID = &leftover
	}

	id, err := s.storage.SaveQuote(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SavedQuote{ID: id, Reference: q.Reference, Result: res}, nil
}
