package generate_excel

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"drapecost/internal/storage"
)

const sheet = "Quotes"

type GenerateExcelStorage interface {
	GetQuotes(ctx context.Context, filter storage.QuoteFilter) ([]storage.Quote, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

var headers = []string{
	"Reference", "Date", "Customer", "Template", "Fabric", "Lining",
	"Rail width, cm", "Drop, cm", "Qty", "Fabric", "Labor", "Lining", "Subtotal", "Total",
	"Leftover", "Confirmed by",
}

// GenerateExcel writes the quotes matching filter into an xlsx workbook
// with a grand total row at the bottom.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter storage.QuoteFilter) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	quotes, err := g.storage.GetQuotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	grand := decimal.Zero
	for i, q := range quotes {
		row := i + 2
		leftover := "-"
		if q.LeftoverID != nil {
			leftover = *q.LeftoverID
		}

		values := []any{
			q.Reference,
			q.CreatedAt.Format("2006-01-02"),
			q.Customer,
			q.TemplateCode,
			q.FabricID,
			q.LiningID,
			q.Measurement.RailWidth,
			q.Measurement.Drop,
			q.Result.Quantity,
			q.Result.FabricCost,
			q.Result.LaborCost,
			q.Result.LiningCost,
			q.Result.Subtotal,
			q.Total.InexactFloat64(),
			leftover,
			q.ConfirmedBy,
		}
		for col, v := range values {
			f.SetCellValue(sheet, cellName(col+1, row), v)
		}

		grand = grand.Add(q.Total)
	}

	totalRow := len(quotes) + 2
	f.SetCellValue(sheet, cellName(len(headers)-3, totalRow), "Total")
	f.SetCellValue(sheet, cellName(len(headers)-2, totalRow), grand.Round(2).InexactFloat64())
	f.SetCellStyle(sheet, cellName(len(headers)-3, totalRow), cellName(len(headers)-2, totalRow), headerStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheet, "A", "F", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
