package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestQuantity_Scenario(t *testing.T) {
	q, ok := Quantity(QuantityInput{
		Measurement: &Measurement{RailWidth: 150, Drop: 200, Quantity: 1},
		Fullness:    ptr(2.0),
		Hems:        HemConfiguration{HeaderHem: 15, BottomHem: 10},
	})
	require.True(t, ok)

	assert.Equal(t, 225.0, q.DropRequired)
	assert.Equal(t, 300.0, q.WidthRequired)
	assert.Equal(t, 67500.0, q.AreaPerPanel)
	assert.InDelta(t, 6.75, q.AreaSqm(), 1e-9)
	assert.InDelta(t, 3.0, q.RunningMeters(), 1e-9)
}

func TestQuantity_AreaWithoutHems(t *testing.T) {
	for _, width := range []float64{0, 1, 90.5, 150, 480} {
		for _, drop := range []float64{0, 10, 212.3, 300} {
			for _, fullness := range []float64{0, 1, 1.5, 2, 2.5, 3} {
				q, ok := Quantity(QuantityInput{
					Measurement: &Measurement{RailWidth: width, Drop: drop, Quantity: 1},
					Fullness:    ptr(fullness),
				})
				require.True(t, ok)
				assert.InDelta(t, width*fullness*drop, q.AreaPerPanel, 1e-6)
			}
		}
	}
}

func TestQuantity_Pooling(t *testing.T) {
	q, ok := Quantity(QuantityInput{
		Measurement: &Measurement{RailWidth: 100, Drop: 200, Pooling: 5, Quantity: 1},
		Hems:        HemConfiguration{HeaderHem: 10, BottomHem: 10},
	})
	require.True(t, ok)
	assert.Equal(t, 225.0, q.DropRequired)
	// nil fullness is single fullness
	assert.Equal(t, 100.0, q.WidthRequired)
}

func TestQuantity_ZeroFullness(t *testing.T) {
	q, ok := Quantity(QuantityInput{
		Measurement: &Measurement{RailWidth: 100, Drop: 200, Quantity: 1},
		Fullness:    ptr(0.0),
	})
	require.True(t, ok)
	assert.Equal(t, 0.0, q.WidthRequired)
	assert.Equal(t, 0.0, q.AreaPerPanel)
}

func TestQuantity_NegativeHemsIgnored(t *testing.T) {
	q, ok := Quantity(QuantityInput{
		Measurement: &Measurement{RailWidth: 100, Drop: 200, Quantity: 1},
		Hems:        HemConfiguration{HeaderHem: -10, BottomHem: 5},
	})
	require.True(t, ok)
	assert.Equal(t, 205.0, q.DropRequired)
}

func TestQuantity_Insufficient(t *testing.T) {
	cases := []*Measurement{
		nil,
		{RailWidth: 100, Drop: 200, Quantity: 0},
		{RailWidth: -1, Drop: 200, Quantity: 1},
	}
	for _, m := range cases {
		_, ok := Quantity(QuantityInput{Measurement: m})
		assert.False(t, ok)
	}
}

func TestPlanCuts(t *testing.T) {
	q := FabricQuantity{DropRequired: 225, WidthRequired: 300}
	hems := HemConfiguration{SideHem: 7.5, SeamHem: 1.5}

	plan, ok := PlanCuts(q, hems, 140)
	require.True(t, ok)
	// 300 + 15 = 315cm over 140cm rolls: 3 widths, 2 seams
	assert.Equal(t, 3, plan.Widths)
	assert.Equal(t, 2, plan.Seams)
	assert.InDelta(t, 6.75, plan.LinearMeters, 1e-9)
}

func TestPlanCuts_SeamsPushExtraWidth(t *testing.T) {
	q := FabricQuantity{DropRequired: 100, WidthRequired: 275}
	// 275 + 2*2.5 = 280 fits exactly in two 140cm widths, the seam does not
	plan, ok := PlanCuts(q, HemConfiguration{SideHem: 2.5, SeamHem: 1.5}, 140)
	require.True(t, ok)
	assert.Equal(t, 3, plan.Widths)
}

func TestPlanCuts_NoRollWidth(t *testing.T) {
	_, ok := PlanCuts(FabricQuantity{WidthRequired: 100}, HemConfiguration{}, 0)
	assert.False(t, ok)

	_, ok = PlanCuts(FabricQuantity{WidthRequired: 100}, HemConfiguration{SeamHem: 80}, 140)
	assert.False(t, ok)
}
