package ranking

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is returned for weights that are negative or do not sum to 1.
var ErrInvalidWeights = errors.New("invalid score weights")

const (
	weightTolerance = 0.01
	// Absorbs float error so that e.g. 0.4+0.2+0.2+0.19 stays inside the tolerance.
	weightEpsilon = 1e-9
)

// ScoreWeights is an immutable set of factor weights. Build it with NewScoreWeights
// or DefaultScoreWeights; the zero value is not usable for ranking.
type ScoreWeights struct {
	skill      float64
	experience float64
	activity   float64
	domain     float64
}

// NewScoreWeights validates and returns weights. They must be non-negative and sum to 1.0 ± 0.01.
func NewScoreWeights(skill, experience, activity, domain float64) (ScoreWeights, error) {
	for _, f := range []struct {
		name string
		w    float64
	}{
		{"skill", skill},
		{"experience", experience},
		{"activity", activity},
		{"domain", domain},
	} {
		name, w := f.name, f.w
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return ScoreWeights{}, fmt.Errorf("%w: %s weight must be a non-negative number, got %v", ErrInvalidWeights, name, w)
		}
	}

	sum := skill + experience + activity + domain
	if math.Abs(sum-1) > weightTolerance+weightEpsilon {
		return ScoreWeights{}, fmt.Errorf("%w: weights must sum to 1.0 (±%.2f), got %.4f", ErrInvalidWeights, weightTolerance, sum)
	}

	return ScoreWeights{skill: skill, experience: experience, activity: activity, domain: domain}, nil
}

// DefaultScoreWeights returns 0.40 skill, 0.20 experience, 0.20 activity, 0.20 domain.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{skill: 0.4, experience: 0.2, activity: 0.2, domain: 0.2}
}

func (w ScoreWeights) Skill() float64      { return w.skill }
func (w ScoreWeights) Experience() float64 { return w.experience }
func (w ScoreWeights) Activity() float64   { return w.activity }
func (w ScoreWeights) Domain() float64     { return w.domain }

// IsZero reports whether w is the unconstructed zero value.
func (w ScoreWeights) IsZero() bool {
	return w == ScoreWeights{}
}

// Active returns the weights applied to a job. Without a domain the domain weight is
// dropped and the other three are rescaled proportionally to sum to 1, which keeps
// their relative order. If all three are zero they share the total equally.
func (w ScoreWeights) Active(hasDomain bool) ScoreWeights {
	if hasDomain {
		return w
	}

	rest := w.skill + w.experience + w.activity
	if rest <= 0 {
		third := 1.0 / 3
		return ScoreWeights{skill: third, experience: third, activity: third}
	}

	return ScoreWeights{
		skill:      w.skill / rest,
		experience: w.experience / rest,
		activity:   w.activity / rest,
	}
}

// Total combines the four factor scores.
func (w ScoreWeights) Total(skill, experience, activity, domain float64) float64 {
	return w.skill*skill + w.experience*experience + w.activity*activity + w.domain*domain
}

func (w ScoreWeights) String() string {
	return fmt.Sprintf("skill=%.2f experience=%.2f activity=%.2f domain=%.2f", w.skill, w.experience, w.activity, w.domain)
}
