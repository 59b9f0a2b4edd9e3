package ranking

import (
	"fmt"
	"math"
	"time"

	"github.com/spigell/candidate-ranker/internal/talent"
)

const (
	ageWeight   = 0.4
	starsWeight = 0.3
	reposWeight = 0.3

	assumedAccountAgeYears = 3
)

// ExperienceScore rates a candidate by account age, total stars and repository count.
// asOf is the reference time for the account age, counted in whole UTC calendar days.
func ExperienceScore(c talent.Candidate, asOf time.Time) (float64, string) {
	var (
		ageDays float64
		ageText string
	)

	if created, ok := c.AccountCreated(); ok {
		ageDays = wholeDaysBetween(created, asOf)
		ageText = describeAge(int(ageDays))
	} else {
		ageDays = assumedAccountAgeYears * daysPerYear
		ageText = fmt.Sprintf("account age unknown (assumed %d years)", assumedAccountAgeYears)
	}

	stars := c.TotalStars()
	repos := c.RepoCount()

	score := ageWeight*accountAgeCurve.Score(ageDays) +
		starsWeight*starsCurve.Score(float64(stars)) +
		reposWeight*repoCountCurve.Score(float64(repos))

	reasoning := fmt.Sprintf("%s, %s across %s", ageText, plural(stars, "total star"), plural(repos, "repo"))

	return clampScore(score), reasoning
}

func wholeDaysBetween(from, to time.Time) float64 {
	const day = 24 * time.Hour
	days := to.UTC().Truncate(day).Sub(from.UTC().Truncate(day)) / day
	return math.Max(float64(days), 0)
}

func describeAge(days int) string {
	if years := days / daysPerYear; years >= 1 {
		return fmt.Sprintf("%d-year-old account", years)
	}
	return fmt.Sprintf("%d-day-old account", days)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
