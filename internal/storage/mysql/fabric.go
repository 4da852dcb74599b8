package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

const fabricColumns = `id, name, kind, price_per_unit, unit, basis, width_cm, is_active`

func scanFabric(row rowScanner) (*storage.Fabric, error) {
	f := &storage.Fabric{}
	var unit, basis string

	if err := row.Scan(&f.ID, &f.Name, &f.Kind, &f.PricePerUnit, &unit, &basis, &f.WidthCm, &f.IsActive); err != nil {
		return nil, err
	}

	f.Unit = calc.PriceUnit(unit)
	f.Basis = calc.PriceBasis(basis)

	return f, nil
}

func (s *Storage) GetFabricByID(ctx context.Context, id string) (*storage.Fabric, error) {
	const op = "storage.mysql.GetFabricByID"

	query := `SELECT ` + fabricColumns + ` FROM fabric_items WHERE id = ?`

	f, err := scanFabric(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: fabric id=%q: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// GetFabrics lists active items of kind; an empty kind lists everything.
func (s *Storage) GetFabrics(ctx context.Context, kind string) ([]*storage.Fabric, error) {
	const op = "storage.mysql.GetFabrics"

	query := `SELECT ` + fabricColumns + ` FROM fabric_items WHERE is_active = TRUE`
	var args []any
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var fabrics []*storage.Fabric

	for rows.Next() {
		f, err := scanFabric(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		fabrics = append(fabrics, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", op, err)
	}

	return fabrics, nil
}
