package domain

// TrendDirection summarizes the sign of a fitted trend slope.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// TrendLine is a least-squares line fitted through daily adoption counts,
// with x being the day index in date order.
type TrendLine struct {
	Slope     float64
	Intercept float64
	Direction TrendDirection
	Points    []DateCount
}

// FitTrend fits a degree-one least-squares line through points. Fewer than
// two points yield a flat, stable line.
func FitTrend(points []DateCount) TrendLine {
	line := TrendLine{Points: points, Direction: TrendStable}
	n := len(points)
	if n < 2 {
		return line
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		y := float64(p.Count)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	nf := float64(n)
	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return line
	}

	line.Slope = (nf*sumXY - sumX*sumY) / denom
	line.Intercept = (sumY - line.Slope*sumX) / nf
	switch {
	case line.Slope > 0:
		line.Direction = TrendIncreasing
	case line.Slope < 0:
		line.Direction = TrendDecreasing
	}
	return line
}
