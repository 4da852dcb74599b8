package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

// GetPricingGrid returns the latest version of the grid that id belongs to,
// so templates follow new uploads of the same name.
func (s *Storage) GetPricingGrid(ctx context.Context, id int64) (*storage.PricingGrid, error) {
	const op = "storage.mysql.GetPricingGrid"

	query := `SELECT id, name, version, shape, data, created_at FROM pricing_grids
		WHERE name = (SELECT name FROM pricing_grids WHERE id = ?)
		ORDER BY version DESC LIMIT 1`

	g := &storage.PricingGrid{}
	var shape sql.NullString
	var data []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.Version, &shape, &data, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: grid id=%d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g.Shape = calc.GridShape(shape.String)
	g.Data = data

	return g, nil
}

// SavePricingGrid stores g as the next version of its name and returns the
// new row id and version.
func (s *Storage) SavePricingGrid(ctx context.Context, g storage.PricingGrid) (int64, int, error) {
	const op = "storage.mysql.SavePricingGrid"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}

	defer tx.Rollback()

	var version int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM pricing_grids WHERE name = ? FOR UPDATE`, g.Name).Scan(&version)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: current version: %w", op, err)
	}
	version++

	res, err := tx.ExecContext(ctx,
		`INSERT INTO pricing_grids (name, version, shape, data) VALUES (?, ?, ?, ?)`,
		g.Name, version, string(g.Shape), []byte(g.Data))
	if err != nil {
		if isDuplicate(err) {
			return 0, 0, fmt.Errorf("%s: grid %q v%d: %w", op, g.Name, version, storage.ErrExists)
		}
		return 0, 0, fmt.Errorf("%s: insert: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return id, version, nil
}
