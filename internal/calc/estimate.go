package calc

// LeftoverChoice is a leftover piece together with the user's decision.
type LeftoverChoice struct {
	Piece     LeftoverPiece
	Confirmed bool
}

// Input is the full calculation context. It is passed explicitly on every
// call; the package holds no state between calls.
type Input struct {
	Measurement *Measurement
	Fullness    *float64
	Hems        HemConfiguration
	Fabric      *FabricItem
	Lining      *FabricItem
	Pricing     Pricing
	Leftover    *LeftoverChoice
}

type WarningCode string

const (
	WarnGridMiss            WarningCode = "pricing_grid_miss"
	WarnLeftoverUnconfirmed WarningCode = "leftover_unconfirmed"
	WarnLeftoverMismatch    WarningCode = "leftover_mismatch"
	WarnLeftoverTooShort    WarningCode = "leftover_too_short"
	WarnLeftoverUnavailable WarningCode = "leftover_unavailable"
	WarnNoFabric            WarningCode = "no_fabric"
)

type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

type Breakdown struct {
	Fabric            FabricQuantity `json:"fabric"`
	AreaSqm           float64        `json:"area_sqm"`
	RunningMeters     float64        `json:"running_meters"`
	FabricMetricPrice float64        `json:"fabric_metric_price"`
	LiningMetricPrice float64        `json:"lining_metric_price"`
	CutPlan           *CutPlan       `json:"cut_plan,omitempty"`
}

// Result is the priced treatment. Fabric, labor and lining costs are per
// panel; Total covers all panels.
type Result struct {
	FabricCost          float64       `json:"fabric_cost"`
	LaborCost           float64       `json:"labor_cost"`
	LiningCost          float64       `json:"lining_cost"`
	Subtotal            float64       `json:"subtotal"`
	Total               float64       `json:"total"`
	Quantity            int           `json:"quantity"`
	Method              PricingMethod `json:"method"`
	ManufacturingPriced bool          `json:"manufacturing_priced"`
	LeftoverUsed        string        `json:"leftover_used,omitempty"`
	Breakdown           Breakdown     `json:"breakdown"`
	Warnings            []Warning     `json:"warnings,omitempty"`
}

// HasWarning reports whether the result carries a warning with code c.
func (r *Result) HasWarning(c WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == c {
			return true
		}
	}
	return false
}

// Estimate prices one treatment. It returns ErrInsufficientData when the
// rail width, drop or quantity are missing; every other missing number is
// treated as 0.
func Estimate(in Input) (*Result, error) {
	q, ok := Quantity(QuantityInput{
		Measurement: in.Measurement,
		Fullness:    in.Fullness,
		Hems:        in.Hems,
	})
	if !ok {
		return nil, ErrInsufficientData
	}

	res := &Result{
		Quantity: in.Measurement.Quantity,
		Breakdown: Breakdown{
			Fabric:        q,
			AreaSqm:       q.AreaSqm(),
			RunningMeters: q.RunningMeters(),
		},
	}

	mf := in.Pricing.manufacturing(*in.Measurement, q)
	res.Method = mf.method
	res.ManufacturingPriced = mf.priced
	if !mf.priced {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnGridMiss,
			Message: "no pricing grid cell covers the requested width and drop",
		})
	}

	fabricCost := FabricCost(in.Fabric, q)
	if in.Fabric != nil {
		res.Breakdown.FabricMetricPrice = in.Fabric.MetricPrice()
		if plan, ok := PlanCuts(q, in.Hems, in.Fabric.WidthCm); ok {
			res.Breakdown.CutPlan = &plan
		}
	} else {
		res.Warnings = append(res.Warnings, Warning{Code: WarnNoFabric, Message: "no fabric selected"})
	}

	if in.Leftover != nil {
		used, warn := applyLeftover(*in.Leftover, in.Fabric, q)
		if used {
			fabricCost = 0
			res.LeftoverUsed = in.Leftover.Piece.ID
		} else {
			res.Warnings = append(res.Warnings, warn)
		}
	}

	if in.Lining != nil && in.Lining.ID != LiningNone {
		res.Breakdown.LiningMetricPrice = in.Lining.MetricPrice()
	}

	res.FabricCost = roundMoney(nonNegative(fabricCost))
	res.LaborCost = roundMoney(nonNegative(mf.cost))
	res.LiningCost = roundMoney(nonNegative(LiningCost(in.Lining, q)))
	res.Subtotal = roundMoney(res.FabricCost + res.LaborCost + res.LiningCost)
	res.Total = roundMoney(res.Subtotal * float64(res.Quantity))

	return res, nil
}

func applyLeftover(c LeftoverChoice, fabric *FabricItem, q FabricQuantity) (bool, Warning) {
	if !c.Confirmed {
		return false, Warning{Code: WarnLeftoverUnconfirmed, Message: "leftover piece " + c.Piece.ID + " was not confirmed"}
	}
	if fabric == nil || c.Piece.FabricID != fabric.ID {
		return false, Warning{Code: WarnLeftoverMismatch, Message: "leftover piece " + c.Piece.ID + " is a different fabric"}
	}
	if c.Piece.LengthCm < RequiredLength(q, c.Piece.Orientation) {
		return false, Warning{Code: WarnLeftoverTooShort, Message: "leftover piece " + c.Piece.ID + " is too short"}
	}
	return true, Warning{}
}
