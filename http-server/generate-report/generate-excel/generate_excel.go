package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"drapecost/internal/storage"
)

const dateLayout = "2006-01-02"

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter storage.QuoteFilter) ([]byte, error)
}

// GenerateReportExcel exports quotes as xlsx. The range defaults to the
// current month up to now; to is inclusive.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

		q := r.URL.Query()
		fromStr := q.Get("from")
		toStr := q.Get("to")

		now := time.Now().UTC()
		fDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		tDate := now

		if fromStr != "" {
			d, err := time.Parse(dateLayout, fromStr)
			if err != nil {
				http.Error(w, "invalid from date", http.StatusBadRequest)
				return
			}
			fDate = d
		}
		if toStr != "" {
			d, err := time.Parse(dateLayout, toStr)
			if err != nil {
				http.Error(w, "invalid to date", http.StatusBadRequest)
				return
			}
			tDate = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		if tDate.Before(fDate) {
			http.Error(w, "to is before from", http.StatusBadRequest)
			return
		}

		filter := storage.QuoteFilter{
			From:         fDate,
			To:           tDate,
			TemplateCode: q.Get("template"),
			Customer:     q.Get("customer"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Quotes_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
