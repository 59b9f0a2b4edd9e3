package ranking

import "testing"

func TestCurveBreakpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		curve Curve
		in    float64
		want  float64
	}{
		{"age zero", accountAgeCurve, 0, 0},
		{"age half year", accountAgeCurve, 182.5, 15},
		{"age one year", accountAgeCurve, 365, 30},
		{"age two years", accountAgeCurve, 730, 45},
		{"age three years", accountAgeCurve, 1095, 60},
		{"age five years", accountAgeCurve, 1825, 80},
		{"age far past", accountAgeCurve, 20000, 100},
		{"stars ten", starsCurve, 10, 30},
		{"stars hundred", starsCurve, 100, 70},
		{"stars thousand", starsCurve, 1000, 90},
		{"repos five", repoCountCurve, 5, 40},
		{"repos fifty", repoCountCurve, 50, 90},
		{"followers hundred", followersCurve, 100, 60},
		{"followers thousand", followersCurve, 1000, 85},
		{"public repos twenty", publicReposCurve, 20, 70},
		{"public repos hundred", publicReposCurve, 100, 100},
		{"negative input", followersCurve, -4, 0},
		{"empty curve", Curve{}, 10, 0},
	}

	for _, tt := range tests {
		if got := tt.curve.Score(tt.in); !almostEqual(got, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestCurvesAreMonotonic(t *testing.T) {
	t.Parallel()

	curves := map[string]Curve{
		"age":          accountAgeCurve,
		"stars":        starsCurve,
		"repos":        repoCountCurve,
		"followers":    followersCurve,
		"public repos": publicReposCurve,
	}

	for name, curve := range curves {
		prev := curve.Score(0)
		for x := 1.0; x <= 12000; x++ {
			got := curve.Score(x)
			if got < prev {
				t.Fatalf("%s curve decreases at %v: %v < %v", name, x, got, prev)
			}
			if got > 100 {
				t.Fatalf("%s curve exceeds 100 at %v", name, x)
			}
			prev = got
		}
	}
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	if clampScore(-3) != 0 || clampScore(140) != 100 || clampScore(72.4049) != 72.4 {
		t.Fatalf("unexpected clamping")
	}
}
