package mysql

import (
	"context"
	"fmt"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

// GetAvailableLeftovers lists unused remnants of a fabric.
func (s *Storage) GetAvailableLeftovers(ctx context.Context, fabricID string) ([]*storage.Leftover, error) {
	const op = "storage.mysql.GetAvailableLeftovers"

	query := `SELECT id, fabric_id, orientation, length_cm, source_treatment_name, created_at
		FROM leftover_fabric
		WHERE fabric_id = ? AND used_by_quote IS NULL
		ORDER BY length_cm`

	rows, err := s.db.QueryContext(ctx, query, fabricID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var leftovers []*storage.Leftover

	for rows.Next() {
		l := &storage.Leftover{}
		var orientation string

		if err := rows.Scan(&l.ID, &l.FabricID, &orientation, &l.LengthCm, &l.SourceTreatmentName, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		l.Orientation = calc.Orientation(orientation)

		leftovers = append(leftovers, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", op, err)
	}

	return leftovers, nil
}

func (s *Storage) CreateLeftover(ctx context.Context, l storage.Leftover) error {
	const op = "storage.mysql.CreateLeftover"

	stmt := `INSERT INTO leftover_fabric (id, fabric_id, orientation, length_cm, source_treatment_name) VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, stmt, l.ID, l.FabricID, string(l.Orientation), l.LengthCm, l.SourceTreatmentName)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: leftover id=%q: %w", op, l.ID, storage.ErrExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
