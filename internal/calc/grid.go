package calc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnknownShape = errors.New("unknown pricing grid shape")
	ErrBadGrid      = errors.New("malformed pricing grid")
)

// PriceGrid prices a treatment by its width and drop. Values in a grid are
// maximums: a lookup picks the smallest breakpoint at or above each
// requested dimension. It reports false when no such cell exists.
type PriceGrid interface {
	Lookup(width, drop float64) (float64, bool)
}

// GridShape tags how a grid is stored.
type GridShape string

const (
	ShapeMatrix GridShape = "matrix"
	ShapeRows   GridShape = "rows"
	ShapeFlat   GridShape = "flat"
)

// MatrixGrid stores prices as Prices[dropIndex][widthIndex]; a null price
// is a gap.
type MatrixGrid struct {
	Widths []float64    `json:"widths"`
	Drops  []float64    `json:"drops"`
	Prices [][]*float64 `json:"prices"`
}

func (g MatrixGrid) Lookup(width, drop float64) (float64, bool) {
	wi, ok := ceilIndex(g.Widths, width)
	if !ok {
		return 0, false
	}
	di, ok := ceilIndex(g.Drops, drop)
	if !ok || di >= len(g.Prices) || wi >= len(g.Prices[di]) || g.Prices[di][wi] == nil {
		return 0, false
	}
	return *g.Prices[di][wi], true
}

func (g MatrixGrid) validate() error {
	if !ascending(g.Widths) || !ascending(g.Drops) {
		return fmt.Errorf("%w: breakpoints must be strictly ascending", ErrBadGrid)
	}
	if len(g.Prices) > len(g.Drops) {
		return fmt.Errorf("%w: %d price rows for %d drops", ErrBadGrid, len(g.Prices), len(g.Drops))
	}
	return nil
}

// GridRow is one drop band of a RowsGrid.
type GridRow struct {
	Drop   float64    `json:"drop"`
	Prices []*float64 `json:"prices"`
}

// RowsGrid stores one row of prices per drop band; a null price is a gap.
type RowsGrid struct {
	Widths []float64 `json:"widths"`
	Rows   []GridRow `json:"rows"`
}

func (g RowsGrid) Lookup(width, drop float64) (float64, bool) {
	wi, ok := ceilIndex(g.Widths, width)
	if !ok {
		return 0, false
	}

	drops := make([]float64, len(g.Rows))
	for i, r := range g.Rows {
		drops[i] = r.Drop
	}
	di, ok := ceilIndex(drops, drop)
	if !ok {
		return 0, false
	}

	row := g.Rows[di]
	if wi >= len(row.Prices) || row.Prices[wi] == nil {
		return 0, false
	}
	return *row.Prices[wi], true
}

func (g RowsGrid) validate() error {
	if !ascending(g.Widths) {
		return fmt.Errorf("%w: width breakpoints must be strictly ascending", ErrBadGrid)
	}
	for i := 1; i < len(g.Rows); i++ {
		if g.Rows[i].Drop <= g.Rows[i-1].Drop {
			return fmt.Errorf("%w: drop rows must be strictly ascending", ErrBadGrid)
		}
	}
	return nil
}

type cellKey struct {
	width, drop float64
}

// FlatGrid is keyed by "<width>x<drop>".
type FlatGrid struct {
	cells  map[cellKey]float64
	widths []float64
	drops  []float64
}

// NewFlatGrid parses raw "<width>x<drop>" keys. A nil price keeps its
// breakpoints but prices nothing.
func NewFlatGrid(raw map[string]*float64) (*FlatGrid, error) {
	g := &FlatGrid{cells: make(map[cellKey]float64, len(raw))}
	seenW := map[float64]bool{}
	seenD := map[float64]bool{}

	for key, price := range raw {
		w, d, err := parseCellKey(key)
		if err != nil {
			return nil, err
		}
		if price != nil {
			g.cells[cellKey{w, d}] = *price
		}
		if !seenW[w] {
			seenW[w] = true
			g.widths = append(g.widths, w)
		}
		if !seenD[d] {
			seenD[d] = true
			g.drops = append(g.drops, d)
		}
	}

	sort.Float64s(g.widths)
	sort.Float64s(g.drops)

	return g, nil
}

func parseCellKey(key string) (float64, float64, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: bad cell key %q", ErrBadGrid, key)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad width in %q", ErrBadGrid, key)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad drop in %q", ErrBadGrid, key)
	}
	return w, d, nil
}

func (g *FlatGrid) Lookup(width, drop float64) (float64, bool) {
	wi, ok := ceilIndex(g.widths, width)
	if !ok {
		return 0, false
	}
	di, ok := ceilIndex(g.drops, drop)
	if !ok {
		return 0, false
	}
	price, ok := g.cells[cellKey{g.widths[wi], g.drops[di]}]
	return price, ok
}

// ceilIndex returns the index of the smallest breakpoint >= v.
// breakpoints must be sorted ascending.
func ceilIndex(breakpoints []float64, v float64) (int, bool) {
	i := sort.SearchFloat64s(breakpoints, v)
	if i >= len(breakpoints) {
		return 0, false
	}
	return i, true
}

func ascending(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return false
		}
	}
	return true
}

// DecodeGrid builds the grid implementation for shape from its JSON form.
func DecodeGrid(shape GridShape, raw []byte) (PriceGrid, error) {
	switch shape {
	case ShapeMatrix:
		var g MatrixGrid
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadGrid, err)
		}
		if err := g.validate(); err != nil {
			return nil, err
		}
		return g, nil
	case ShapeRows:
		var g RowsGrid
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadGrid, err)
		}
		if err := g.validate(); err != nil {
			return nil, err
		}
		return g, nil
	case ShapeFlat:
		var cells map[string]*float64
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadGrid, err)
		}
		return NewFlatGrid(cells)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
}

// DetectShape guesses the shape of an untagged grid payload.
func DetectShape(raw []byte) (GridShape, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadGrid, err)
	}

	if _, ok := probe["rows"]; ok {
		return ShapeRows, nil
	}
	if _, ok := probe["prices"]; ok {
		return ShapeMatrix, nil
	}
	for key := range probe {
		if _, _, err := parseCellKey(key); err != nil {
			return "", ErrUnknownShape
		}
	}
	return ShapeFlat, nil
}
