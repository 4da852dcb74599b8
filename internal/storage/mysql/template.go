package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

const templateColumns = `id, code, name, category, pricing_method, base_rate, pricing_grid_id, fullness_ratio, hems, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*storage.Template, error) {
	t := &storage.Template{}

	var (
		method   string
		gridID   sql.NullInt64
		fullness sql.NullFloat64
		hemsJSON sql.NullString
	)

	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Category, &method, &t.BaseRate, &gridID, &fullness, &hemsJSON, &t.IsActive)
	if err != nil {
		return nil, err
	}

	t.PricingMethod = calc.PricingMethod(method)
	if gridID.Valid {
		t.PricingGridID = &gridID.Int64
	}
	if fullness.Valid {
		t.FullnessRatio = &fullness.Float64
	}
	if hemsJSON.Valid && hemsJSON.String != "" {
		var hems calc.HemConfiguration
		if err := json.Unmarshal([]byte(hemsJSON.String), &hems); err != nil {
			return nil, fmt.Errorf("parse hems of template %s: %w", t.Code, err)
		}
		t.Hems = &hems
	}

	return t, nil
}

func (s *Storage) GetTemplateByCode(ctx context.Context, code string) (*storage.Template, error) {
	const op = "storage.mysql.GetTemplateByCode"

	query := `SELECT ` + templateColumns + ` FROM treatment_templates WHERE code = ? AND is_active = TRUE`

	t, err := scanTemplate(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: template code=%q: %w", op, code, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Storage) GetAllTemplates(ctx context.Context) ([]*storage.Template, error) {
	const op = "storage.mysql.GetAllTemplates"

	query := `SELECT ` + templateColumns + ` FROM treatment_templates WHERE is_active = TRUE ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var templates []*storage.Template

	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", op, err)
	}

	return templates, nil
}

func (s *Storage) CreateTemplateAdmin(ctx context.Context, t storage.TemplateAdmin) error {
	const op = "storage.mysql.CreateTemplateAdmin"

	stmt := `INSERT INTO treatment_templates (code, name, category, pricing_method, base_rate, pricing_grid_id,
            fullness_ratio, hems, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, stmt, t.Code, t.Name, t.Category, t.PricingMethod, t.BaseRate,
		t.PricingGridID, t.FullnessRatio, nullableJSON(t.Hems), t.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: template code=%q: %w", op, t.Code, storage.ErrExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateTemplateAdmin(ctx context.Context, code string, t storage.TemplateAdmin) error {
	const op = "storage.mysql.UpdateTemplateAdmin"

	stmt := `UPDATE treatment_templates SET name=?, category=?, pricing_method=?, base_rate=?, pricing_grid_id=?,
            fullness_ratio=?, hems=?, is_active=? WHERE code=?`

	res, err := s.db.ExecContext(ctx, stmt, t.Name, t.Category, t.PricingMethod, t.BaseRate, t.PricingGridID,
		t.FullnessRatio, nullableJSON(t.Hems), t.IsActive, code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: template code=%q: %w", op, code, storage.ErrNotFound)
	}

	return nil
}

func nullableJSON(s string) any {
	if s == "" {
		return nil
	}
	return s
}
