package calc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInsufficientData means the inputs are not complete enough to price a
// treatment yet. Callers show no totals instead of zero totals.
var ErrInsufficientData = errors.New("insufficient data")

type Unit string

const (
	UnitMM   Unit = "mm"
	UnitCM   Unit = "cm"
	UnitM    Unit = "m"
	UnitInch Unit = "inch"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitMM, UnitCM, UnitM, UnitInch:
		return true
	}
	return false
}

// factor to centimeters
func (u Unit) factor() float64 {
	switch u {
	case UnitMM:
		return 0.1
	case UnitM:
		return 100
	case UnitInch:
		return 2.54
	default:
		return 1
	}
}

// ToCentimeters converts v expressed in u to centimeters.
func (u Unit) ToCentimeters(v float64) float64 {
	return v * u.factor()
}

// Measurement is a normalized window measurement, all lengths in cm.
type Measurement struct {
	RailWidth float64 `json:"rail_width"`
	Drop      float64 `json:"drop"`
	Pooling   float64 `json:"pooling"`
	Quantity  int     `json:"quantity"`
}

// RawValue is a form field as typed. In JSON it may be a string, a
// number or null.
type RawValue string

func (v *RawValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("measurement value must be a string or number: %w", err)
	}
	*v = RawValue(n.String())
	return nil
}

// RawMeasurement is what the user typed in.
type RawMeasurement struct {
	RailWidth RawValue `json:"rail_width"`
	Drop      RawValue `json:"drop"`
	Pooling   RawValue `json:"pooling"`
	Quantity  RawValue `json:"quantity"`
}

var suffixes = []struct {
	suffix string
	unit   Unit
}{
	// longest first so "mm" is not read as "m"
	{"mm", UnitMM},
	{"cm", UnitCM},
	{"inch", UnitInch},
	{"in", UnitInch},
	{`"`, UnitInch},
	{"m", UnitM},
}

// ParseLength parses raw into centimeters. A unit suffix in raw wins over
// def. Empty, non-numeric, non-finite and negative values are invalid.
func ParseLength(raw string, def Unit) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	unit := def
	for _, sf := range suffixes {
		if strings.HasSuffix(s, sf.suffix) {
			unit = sf.unit
			s = strings.TrimSpace(strings.TrimSuffix(s, sf.suffix))
			break
		}
	}

	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}

	return unit.ToCentimeters(v), true
}

// ParseCentimeters parses raw as a plain centimeter value.
func ParseCentimeters(raw string) (float64, bool) {
	return ParseLength(raw, UnitCM)
}

// ParseQuantity parses a panel count, which must be a whole number >= 1.
func ParseQuantity(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Normalize converts raw input into a Measurement. Pooling is optional and
// defaults to 0; the other fields are required.
func (r RawMeasurement) Normalize(unit Unit) (*Measurement, error) {
	width, ok := ParseLength(string(r.RailWidth), unit)
	if !ok {
		return nil, ErrInsufficientData
	}
	drop, ok := ParseLength(string(r.Drop), unit)
	if !ok {
		return nil, ErrInsufficientData
	}
	qty, ok := ParseQuantity(string(r.Quantity))
	if !ok {
		return nil, ErrInsufficientData
	}

	pooling, ok := ParseLength(string(r.Pooling), unit)
	if !ok {
		pooling = 0
	}

	return &Measurement{
		RailWidth: width,
		Drop:      drop,
		Pooling:   pooling,
		Quantity:  qty,
	}, nil
}
