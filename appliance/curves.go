package appliance

// segment is a run of minutes at a constant fraction of rated power.
type segment struct {
	fraction float64
	minutes  int
}

func expand(segments ...segment) []float64 {
	var curve []float64
	for _, s := range segments {
		for i := 0; i < s.minutes; i++ {
			curve = append(curve, s.fraction)
		}
	}
	return curve
}

// Measured power curves as a fraction of peak power, one value per minute of the cycle.
var curves = map[Kind][]float64{
	ClothesWasher: expand(
		segment{0.02, 3},  // fill
		segment{1.0, 14},  // heat
		segment{0.06, 12}, // wash
		segment{0.10, 4},
		segment{0.25, 5}, // spin
		segment{0.02, 2},
	),
	ClothesDryer: expand(
		segment{0.5, 3},
		segment{1.0, 55},
		segment{0.55, 12},
		segment{0.08, 5}, // cool down
	),
	Dishwasher: expand(
		segment{0.01, 4},
		segment{0.04, 10},
		segment{1.0, 18}, // wash heat
		segment{0.05, 30},
		segment{0.02, 4},
		segment{1.0, 14}, // rinse heat
		segment{0.04, 16},
		segment{0.01, 28},
	),
}

// Curve returns the fractional power curve of a fixed-curve kind, or nil if the kind runs at a
// constant power.
func (k Kind) Curve() []float64 {
	return curves[k]
}
