package ranking

import "math"

// Band maps inputs in [From, To) linearly onto [Low, High].
type Band struct {
	From, To  float64
	Low, High float64
}

// Curve is a monotonic piecewise-linear mapping made of adjacent bands.
// Inputs below the first band get its Low, inputs past the last band get its High.
type Curve []Band

func (c Curve) Score(x float64) float64 {
	if len(c) == 0 || math.IsNaN(x) {
		return 0
	}

	if x <= c[0].From {
		return c[0].Low
	}

	for _, b := range c {
		if x < b.To {
			return b.Low + (x-b.From)/(b.To-b.From)*(b.High-b.Low)
		}
	}

	return c[len(c)-1].High
}

const daysPerYear = 365

var (
	accountAgeCurve = Curve{
		{From: 0, To: daysPerYear, Low: 0, High: 30},
		{From: daysPerYear, To: 3 * daysPerYear, Low: 30, High: 60},
		{From: 3 * daysPerYear, To: 5 * daysPerYear, Low: 60, High: 80},
		{From: 5 * daysPerYear, To: 10 * daysPerYear, Low: 80, High: 100},
	}
	starsCurve = Curve{
		{From: 0, To: 10, Low: 0, High: 30},
		{From: 10, To: 100, Low: 30, High: 70},
		{From: 100, To: 1000, Low: 70, High: 90},
		{From: 1000, To: 10000, Low: 90, High: 100},
	}
	repoCountCurve = Curve{
		{From: 0, To: 5, Low: 0, High: 40},
		{From: 5, To: 20, Low: 40, High: 70},
		{From: 20, To: 50, Low: 70, High: 90},
		{From: 50, To: 100, Low: 90, High: 100},
	}
	followersCurve = Curve{
		{From: 0, To: 10, Low: 0, High: 30},
		{From: 10, To: 100, Low: 30, High: 60},
		{From: 100, To: 1000, Low: 60, High: 85},
		{From: 1000, To: 10000, Low: 85, High: 100},
	}
	publicReposCurve = Curve{
		{From: 0, To: 5, Low: 0, High: 40},
		{From: 5, To: 20, Low: 40, High: 70},
		{From: 20, To: 100, Low: 70, High: 100},
	}
)

// clampScore limits a score to [0, 100] and rounds it to two decimals.
func clampScore(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	x = math.Max(0, math.Min(100, x))
	return math.Round(x*100) / 100
}
