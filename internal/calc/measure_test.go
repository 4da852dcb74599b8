package calc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		unit  Unit
		want  float64
		valid bool
	}{
		{"plain cm", "150", UnitCM, 150, true},
		{"spaces", "  200.5 ", UnitCM, 200.5, true},
		{"comma decimal", "150,5", UnitCM, 150.5, true},
		{"mm suffix", "1500mm", UnitCM, 150, true},
		{"m suffix", "1.5 m", UnitCM, 150, true},
		{"inch suffix", "10in", UnitCM, 25.4, true},
		{"quote suffix", `10"`, UnitCM, 25.4, true},
		{"default unit mm", "1200", UnitMM, 120, true},
		{"default inch", "2", UnitInch, 5.08, true},
		{"zero", "0", UnitCM, 0, true},
		{"empty", "", UnitCM, 0, false},
		{"letters", "abc", UnitCM, 0, false},
		{"negative", "-5", UnitCM, 0, false},
		{"nan", "NaN", UnitCM, 0, false},
		{"inf", "Inf", UnitCM, 0, false},
		{"suffix only", "cm", UnitCM, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLength(tt.raw, tt.unit)
			assert.Equal(t, tt.valid, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseCentimeters(t *testing.T) {
	v, ok := ParseCentimeters("42")
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)

	_, ok = ParseCentimeters("forty")
	assert.False(t, ok)
}

func TestParseQuantity(t *testing.T) {
	n, ok := ParseQuantity(" 3 ")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	for _, raw := range []string{"", "0", "-1", "1.5", "x"} {
		_, ok := ParseQuantity(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestRawMeasurement_Normalize(t *testing.T) {
	m, err := RawMeasurement{RailWidth: "150", Drop: "200", Quantity: "2"}.Normalize(UnitCM)
	require.NoError(t, err)
	assert.Equal(t, &Measurement{RailWidth: 150, Drop: 200, Pooling: 0, Quantity: 2}, m)

	m, err = RawMeasurement{RailWidth: "1500", Drop: "2000", Pooling: "50", Quantity: "1"}.Normalize(UnitMM)
	require.NoError(t, err)
	assert.InDelta(t, 150, m.RailWidth, 1e-9)
	assert.InDelta(t, 200, m.Drop, 1e-9)
	assert.InDelta(t, 5, m.Pooling, 1e-9)

	missing := []RawMeasurement{
		{Drop: "200", Quantity: "1"},
		{RailWidth: "150", Quantity: "1"},
		{RailWidth: "150", Drop: "200"},
		{RailWidth: "wide", Drop: "200", Quantity: "1"},
	}
	for _, raw := range missing {
		m, err := raw.Normalize(UnitCM)
		assert.ErrorIs(t, err, ErrInsufficientData)
		assert.Nil(t, m)
	}
}

func TestRawMeasurement_JSON(t *testing.T) {
	var raw RawMeasurement
	err := json.Unmarshal([]byte(`{"rail_width": 150.5, "drop": "2m", "pooling": null, "quantity": 2}`), &raw)
	require.NoError(t, err)

	assert.Equal(t, RawValue("150.5"), raw.RailWidth)
	assert.Equal(t, RawValue("2m"), raw.Drop)
	assert.Equal(t, RawValue(""), raw.Pooling)
	assert.Equal(t, RawValue("2"), raw.Quantity)

	m, err := raw.Normalize(UnitCM)
	require.NoError(t, err)
	assert.InDelta(t, 200, m.Drop, 1e-9)

	err = json.Unmarshal([]byte(`{"rail_width": true}`), &raw)
	assert.Error(t, err)
}
