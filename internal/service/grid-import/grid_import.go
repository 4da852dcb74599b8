package gridimport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

var ErrEmptySheet = errors.New("sheet has no price cells")

type GridStorage interface {
	SavePricingGrid(ctx context.Context, g storage.PricingGrid) (int64, int, error)
}

type ImportService struct {
	storage GridStorage
}

func NewImportService(storage GridStorage) *ImportService {
	return &ImportService{storage: storage}
}

// Import reads the first sheet of an xlsx workbook and saves it as the next
// version of the grid called name.
func (s *ImportService) Import(ctx context.Context, name string, r io.Reader) (*storage.PricingGrid, error) {
	const op = "service.gridimport.Import"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w: grid name is required", op, calc.ErrBadGrid)
	}

	grid, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := json.Marshal(grid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g := storage.PricingGrid{Name: name, Shape: calc.ShapeRows, Data: data}

	g.ID, g.Version, err = s.storage.SavePricingGrid(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &g, nil
}

// Parse turns a sheet laid out as width breakpoints across row 1 (from
// column B) and drop breakpoints down column A into a rows grid.
func Parse(r io.Reader) (*calc.RowsGrid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", calc.ErrBadGrid, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, ErrEmptySheet
	}

	grid := &calc.RowsGrid{}
	for col, raw := range rows[0][1:] {
		w, err := number(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: width at %s: %v", calc.ErrBadGrid, cellName(col+2, 1), err)
		}
		grid.Widths = append(grid.Widths, w)
	}

	cells := 0
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		drop, err := number(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: drop at %s: %v", calc.ErrBadGrid, cellName(1, rowNum), err)
		}

		gr := calc.GridRow{Drop: drop, Prices: make([]*float64, len(grid.Widths))}
		for col := 1; col < len(row); col++ {
			if strings.TrimSpace(row[col]) == "" {
				continue
			}
			if col > len(grid.Widths) {
				return nil, fmt.Errorf("%w: price at %s has no width header", calc.ErrBadGrid, cellName(col+1, rowNum))
			}
			price, err := number(row[col])
			if err != nil {
				return nil, fmt.Errorf("%w: price at %s: %v", calc.ErrBadGrid, cellName(col+1, rowNum), err)
			}
			gr.Prices[col-1] = &price
			cells++
		}
		grid.Rows = append(grid.Rows, gr)
	}

	if cells == 0 {
		return nil, ErrEmptySheet
	}

	data, err := json.Marshal(grid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", calc.ErrBadGrid, err)
	}
	if _, err := calc.DecodeGrid(calc.ShapeRows, data); err != nil {
		return nil, err
	}

	return grid, nil
}

func number(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %v", v)
	}
	return v, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
