package calc

import "math"

// FabricQuantity is the fabric requirement of a single panel.
type FabricQuantity struct {
	DropRequired  float64 `json:"drop_required_cm"`
	WidthRequired float64 `json:"width_required_cm"`
	AreaPerPanel  float64 `json:"area_per_panel_cm2"`
}

// AreaSqm returns the panel area in square meters.
func (q FabricQuantity) AreaSqm() float64 {
	return q.AreaPerPanel / sqCmPerSquareMeter
}

// RunningMeters returns the gathered width in linear meters.
func (q FabricQuantity) RunningMeters() float64 {
	return q.WidthRequired / cmPerMeter
}

// QuantityInput is everything the quantity calculation reads.
// A nil Fullness means single fullness.
type QuantityInput struct {
	Measurement *Measurement
	Fullness    *float64
	Hems        HemConfiguration
}

// Quantity computes the fabric requirement. It reports false when the
// measurement is missing or unusable.
func Quantity(in QuantityInput) (FabricQuantity, bool) {
	m := in.Measurement
	if m == nil || m.Quantity < 1 || !validLength(m.RailWidth) || !validLength(m.Drop) {
		return FabricQuantity{}, false
	}

	fullness := 1.0
	if in.Fullness != nil {
		fullness = nonNegative(*in.Fullness)
	}

	hems := in.Hems.sanitized()
	dropRequired := m.Drop + nonNegative(m.Pooling) + hems.HeaderHem + hems.BottomHem
	widthRequired := m.RailWidth * fullness

	return FabricQuantity{
		DropRequired:  dropRequired,
		WidthRequired: widthRequired,
		AreaPerPanel:  dropRequired * widthRequired,
	}, true
}

func validLength(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// CutPlan describes how a panel is cut from a roll of a given width.
type CutPlan struct {
	RollWidth    float64 `json:"roll_width_cm"`
	Widths       int     `json:"widths"`
	Seams        int     `json:"seams"`
	LinearMeters float64 `json:"linear_meters"`
}

// PlanCuts works out how many roll widths are joined to make up the
// gathered width, including side hems on the outer edges and a seam
// allowance on both sides of each join. A roll width of 0 gives no plan.
func PlanCuts(q FabricQuantity, hems HemConfiguration, rollWidth float64) (CutPlan, bool) {
	if rollWidth <= 0 || !validLength(rollWidth) {
		return CutPlan{}, false
	}
	if q.WidthRequired == 0 {
		return CutPlan{RollWidth: rollWidth}, true
	}

	hems = hems.sanitized()
	if 2*hems.SeamHem >= rollWidth {
		return CutPlan{}, false
	}
	base := q.WidthRequired + 2*hems.SideHem

	widths := int(math.Ceil(base / rollWidth))
	// every join eats seam allowance; add widths until it fits
	for float64(widths)*rollWidth < base+float64(widths-1)*2*hems.SeamHem {
		widths++
	}

	return CutPlan{
		RollWidth:    rollWidth,
		Widths:       widths,
		Seams:        widths - 1,
		LinearMeters: float64(widths) * q.DropRequired / cmPerMeter,
	}, true
}
