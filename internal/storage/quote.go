package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"drapecost/internal/calc"
)

// Quote is a persisted estimate.
type Quote struct {
	ID           int64            `json:"id"`
	Reference    string           `json:"reference"`
	Customer     string           `json:"customer"`
	TemplateCode string           `json:"template_code"`
	FabricID     string           `json:"fabric_id"`
	LiningID     string           `json:"lining_id"`
	Measurement  calc.Measurement `json:"measurement"`
	Result       calc.Result      `json:"result"`
	Total        decimal.Decimal  `json:"total"`
	LeftoverID   *string          `json:"leftover_id"`
	ConfirmedBy  string           `json:"confirmed_by"`
	CreatedAt    time.Time        `json:"created_at"`
}

type QuoteFilter struct {
	From         time.Time
	To           time.Time
	TemplateCode string
	Customer     string
}
