package calc

import "github.com/shopspring/decimal"

type PricingMethod string

const (
	MethodPricingGrid PricingMethod = "pricing_grid"
	MethodBaseRate    PricingMethod = "base_rate"
	MethodLaborRate   PricingMethod = "labor_rate"
)

func (m PricingMethod) Valid() bool {
	switch m {
	case MethodPricingGrid, MethodBaseRate, MethodLaborRate:
		return true
	}
	return false
}

// PriceUnit is what a fabric price is quoted per.
type PriceUnit string

const (
	PerMeter PriceUnit = "per_meter"
	PerSqm   PriceUnit = "per_sqm"
)

// PriceBasis tells whether a price is quoted in yards or meters.
type PriceBasis string

const (
	Metric   PriceBasis = "metric"
	Imperial PriceBasis = "imperial"
)

const (
	metersPerYard      = 0.9144
	sqMetersPerSqYard  = metersPerYard * metersPerYard
	LiningNone         = "none"
	cmPerMeter         = 100.0
	sqCmPerSquareMeter = 10000.0
)

// FabricItem is a fabric or lining as held in inventory.
type FabricItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	PricePerUnit float64    `json:"price_per_unit"`
	Unit         PriceUnit  `json:"unit"`
	Basis        PriceBasis `json:"basis"`
	WidthCm      float64    `json:"width_cm"`
}

// MetricPrice returns the price per meter, or per square meter for
// per_sqm items, converting yard prices.
func (f FabricItem) MetricPrice() float64 {
	price := nonNegative(f.PricePerUnit)
	if f.Basis != Imperial {
		return price
	}
	if f.Unit == PerSqm {
		return price / sqMetersPerSqYard
	}
	return price / metersPerYard
}

// Pricing is the template-level pricing descriptor.
type Pricing struct {
	Method    PricingMethod
	BaseRate  float64
	Grid      PriceGrid
	LaborRate float64
}

// resolveMethod picks the strategy actually used. The labor rate covers
// templates whose declared method has nothing to work with.
func (p Pricing) resolveMethod() PricingMethod {
	switch p.Method {
	case MethodPricingGrid:
		if p.Grid != nil {
			return MethodPricingGrid
		}
	case MethodBaseRate:
		if p.BaseRate > 0 {
			return MethodBaseRate
		}
	}
	return MethodLaborRate
}

type manufacturing struct {
	method PricingMethod
	cost   float64
	priced bool
}

func (p Pricing) manufacturing(m Measurement, q FabricQuantity) manufacturing {
	method := p.resolveMethod()

	switch method {
	case MethodPricingGrid:
		price, ok := p.Grid.Lookup(m.RailWidth, m.Drop)
		if !ok {
			return manufacturing{method: method}
		}
		return manufacturing{method: method, cost: nonNegative(price), priced: true}
	case MethodBaseRate:
		return manufacturing{method: method, cost: nonNegative(p.BaseRate) * q.RunningMeters(), priced: true}
	default:
		return manufacturing{method: MethodLaborRate, cost: nonNegative(p.LaborRate) * q.RunningMeters(), priced: true}
	}
}

// FabricCost prices the face fabric of one panel. A nil fabric costs 0.
func FabricCost(f *FabricItem, q FabricQuantity) float64 {
	if f == nil {
		return 0
	}
	if f.Unit == PerSqm {
		return q.AreaSqm() * f.MetricPrice()
	}
	return q.RunningMeters() * f.MetricPrice()
}

// LiningCost prices the lining of one panel by fabric area. No lining, or
// a lining with ID "none", costs 0.
func LiningCost(l *FabricItem, q FabricQuantity) float64 {
	if l == nil || l.ID == LiningNone {
		return 0
	}
	return q.AreaSqm() * l.MetricPrice()
}

// roundMoney rounds half away from zero to cents.
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
