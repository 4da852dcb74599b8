package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

const settingsRowID = 1

// GetBusinessSettings returns the single settings row. A missing row is
// reported as storage.ErrNotFound so callers can fall back to config.
func (s *Storage) GetBusinessSettings(ctx context.Context) (*storage.BusinessSettings, error) {
	const op = "storage.mysql.GetBusinessSettings"

	query := `SELECT labor_rate, unit, price_basis, currency FROM business_settings WHERE id = ?`

	bs := &storage.BusinessSettings{}
	var unit, basis string

	err := s.db.QueryRowContext(ctx, query, settingsRowID).Scan(&bs.LaborRate, &unit, &basis, &bs.Currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bs.Unit = calc.Unit(unit)
	bs.PriceBasis = calc.PriceBasis(basis)

	return bs, nil
}

func (s *Storage) UpdateBusinessSettings(ctx context.Context, bs storage.BusinessSettings) error {
	const op = "storage.mysql.UpdateBusinessSettings"

	stmt := `INSERT INTO business_settings (id, labor_rate, unit, price_basis, currency) VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			labor_rate = VALUES(labor_rate),
			unit = VALUES(unit),
			price_basis = VALUES(price_basis),
			currency = VALUES(currency)`

	_, err := s.db.ExecContext(ctx, stmt, settingsRowID, bs.LaborRate, string(bs.Unit), string(bs.PriceBasis), bs.Currency)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
