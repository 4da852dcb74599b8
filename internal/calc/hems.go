package calc

// HemConfiguration holds per-edge allowances in cm.
type HemConfiguration struct {
	HeaderHem float64 `json:"header_hem"`
	BottomHem float64 `json:"bottom_hem"`
	SideHem   float64 `json:"side_hem"`
	SeamHem   float64 `json:"seam_hem"`
}

// DefaultHems is applied to treatment templates that carry no allowances.
func DefaultHems() HemConfiguration {
	return HemConfiguration{
		HeaderHem: 15,
		BottomHem: 10,
		SideHem:   7.5,
		SeamHem:   1.5,
	}
}

// sanitized returns a copy with negative allowances zeroed.
func (h HemConfiguration) sanitized() HemConfiguration {
	return HemConfiguration{
		HeaderHem: nonNegative(h.HeaderHem),
		BottomHem: nonNegative(h.BottomHem),
		SideHem:   nonNegative(h.SideHem),
		SeamHem:   nonNegative(h.SeamHem),
	}
}

func nonNegative(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
