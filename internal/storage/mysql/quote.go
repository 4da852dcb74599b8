package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"drapecost/internal/storage"
)

// SaveQuote inserts q. When q uses a leftover piece the piece is marked as
// used by the quote in the same transaction; a piece already taken by
// another quote fails with storage.ErrLeftoverUsed.
func (s *Storage) SaveQuote(ctx context.Context, q storage.Quote) (int64, error) {
	const op = "storage.mysql.SaveQuote"

	measurement, err := json.Marshal(q.Measurement)
	if err != nil {
		return 0, fmt.Errorf("%s: marshal measurement: %w", op, err)
	}
	result, err := json.Marshal(q.Result)
	if err != nil {
		return 0, fmt.Errorf("%s: marshal result: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}

	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO quotes (reference, customer, template_code, fabric_id, lining_id,
            measurement, result, total, leftover_id, confirmed_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Reference, q.Customer, q.TemplateCode, q.FabricID, q.LiningID, measurement, result,
		q.Total.StringFixed(2), q.LeftoverID, q.ConfirmedBy)
	if err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s: quote %s: %w", op, q.Reference, storage.ErrExists)
		}
		return 0, fmt.Errorf("%s: insert quote: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	if q.LeftoverID != nil {
		upd, err := tx.ExecContext(ctx, `UPDATE leftover_fabric SET used_by_quote = ?, used_by = ?, used_at = NOW()
			WHERE id = ? AND used_by_quote IS NULL`, id, q.ConfirmedBy, *q.LeftoverID)
		if err != nil {
			return 0, fmt.Errorf("%s: mark leftover: %w", op, err)
		}
		n, err := upd.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: rows affected: %w", op, err)
		}
		if n == 0 {
			return 0, fmt.Errorf("%s: leftover id=%q: %w", op, *q.LeftoverID, storage.ErrLeftoverUsed)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return id, nil
}

func buildQuoteFilters(f storage.QuoteFilter) (string, []any) {
	var conditions []string
	var args []any

	if !f.From.IsZero() {
		conditions = append(conditions, "q.created_at >= ?")
		args = append(args, f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		conditions = append(conditions, "q.created_at < ?")
		args = append(args, f.To.AddDate(0, 0, 1).Format("2006-01-02"))
	}
	if f.TemplateCode != "" {
		conditions = append(conditions, "q.template_code = ?")
		args = append(args, f.TemplateCode)
	}
	if f.Customer != "" {
		conditions = append(conditions, "q.customer LIKE ?")
		args = append(args, "%"+f.Customer+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args
}

func (s *Storage) GetQuotes(ctx context.Context, filter storage.QuoteFilter) ([]storage.Quote, error) {
	const op = "storage.mysql.GetQuotes"

	where, args := buildQuoteFilters(filter)
	query := `SELECT q.id, q.reference, q.customer, q.template_code, q.fabric_id, q.lining_id,
			q.measurement, q.result, q.total, q.leftover_id, q.confirmed_by, q.created_at
		FROM quotes q ` + where + ` ORDER BY q.created_at, q.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	quotes := []storage.Quote{}

	for rows.Next() {
		var (
			q                   storage.Quote
			measurement, result []byte
			total               string
		)

		err := rows.Scan(&q.ID, &q.Reference, &q.Customer, &q.TemplateCode, &q.FabricID, &q.LiningID,
			&measurement, &result, &total, &q.LeftoverID, &q.ConfirmedBy, &q.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		if err := json.Unmarshal(measurement, &q.Measurement); err != nil {
			return nil, fmt.Errorf("%s: quote %d measurement: %w", op, q.ID, err)
		}
		if err := json.Unmarshal(result, &q.Result); err != nil {
			return nil, fmt.Errorf("%s: quote %d result: %w", op, q.ID, err)
		}
		if q.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("%s: quote %d total: %w", op, q.ID, err)
		}

		quotes = append(quotes, q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", op, err)
	}

	return quotes, nil
}
