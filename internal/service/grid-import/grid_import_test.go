package gridimport

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

type MockGridStorage struct {
	mock.Mock
}

func (m *MockGridStorage) SavePricingGrid(ctx context.Context, g storage.PricingGrid) (int64, int, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(int64), args.Int(1), args.Error(2)
}

// workbook builds an xlsx in memory from rows of cell values.
func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			require.NoError(t, f.SetCellValue("Sheet1", cellName(c+1, r+1), v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParse(t *testing.T) {
	buf := workbook(t, [][]any{
		{"drop \\ width", 100, 150, 200},
		{100, 10, 15, 20},
		{200, 20, nil, 30},
		{300, "30,5", 35, 40},
	})

	grid, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 150, 200}, grid.Widths)
	require.Len(t, grid.Rows, 3)

	price, ok := grid.Lookup(80, 180)
	assert.True(t, ok)
	assert.Equal(t, 20.0, price)

	_, ok = grid.Lookup(150, 200)
	assert.False(t, ok, "empty cell is a gap")

	price, ok = grid.Lookup(90, 250)
	assert.True(t, ok)
	assert.Equal(t, 30.5, price)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
		want error
	}{
		{
			name: "text price",
			rows: [][]any{{"", 100}, {100, "ten"}},
			want: calc.ErrBadGrid,
		},
		{
			name: "descending widths",
			rows: [][]any{{"", 200, 100}, {100, 1, 2}},
			want: calc.ErrBadGrid,
		},
		{
			name: "descending drops",
			rows: [][]any{{"", 100}, {200, 1}, {100, 2}},
			want: calc.ErrBadGrid,
		},
		{
			name: "NaN width",
			rows: [][]any{{"", 100, "NaN"}, {100, 1, 2}},
			want: calc.ErrBadGrid,
		},
		{
			name: "infinite drop",
			rows: [][]any{{"", 100}, {"+Inf", 1}},
			want: calc.ErrBadGrid,
		},
		{
			name: "price past last width",
			rows: [][]any{{"", 100, 200}, {100, 1, 2, 3}},
			want: calc.ErrBadGrid,
		},
		{
			name: "header only",
			rows: [][]any{{"", 100, 200}},
			want: ErrEmptySheet,
		},
		{
			name: "no prices",
			rows: [][]any{{"", 100}, {100}},
			want: ErrEmptySheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(workbook(t, tt.rows))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := Parse(bytes.NewBufferString("widths,100\n"))
	assert.ErrorIs(t, err, calc.ErrBadGrid)
}

func TestImport(t *testing.T) {
	st := new(MockGridStorage)
	st.On("SavePricingGrid", mock.Anything, mock.MatchedBy(func(g storage.PricingGrid) bool {
		if g.Name != "pinch" || g.Shape != calc.ShapeRows {
			return false
		}
		decoded, err := g.Decode()
		if err != nil {
			return false
		}
		price, ok := decoded.Lookup(100, 100)
		return ok && price == 10
	})).Return(int64(4), 2, nil)

	g, err := NewImportService(st).Import(context.Background(), " pinch ", workbook(t, [][]any{
		{"", 100, 200},
		{100, 10, 20},
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(4), g.ID)
	assert.Equal(t, 2, g.Version)
	assert.Equal(t, "pinch", g.Name)
	st.AssertExpectations(t)
}

func TestImport_MissingName(t *testing.T) {
	st := new(MockGridStorage)

	_, err := NewImportService(st).Import(context.Background(), "", workbook(t, [][]any{{"", 100}, {100, 1}}))
	assert.ErrorIs(t, err, calc.ErrBadGrid)
	st.AssertNotCalled(t, "SavePricingGrid", mock.Anything, mock.Anything)
}

func TestImport_StorageError(t *testing.T) {
	st := new(MockGridStorage)
	st.On("SavePricingGrid", mock.Anything, mock.Anything).Return(int64(0), 0, errors.New("lock wait timeout"))

	_, err := NewImportService(st).Import(context.Background(), "pinch", workbook(t, [][]any{{"", 100}, {100, 1}}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lock wait timeout")
}
