package ranking

import (
	"fmt"

	"github.com/spigell/candidate-ranker/internal/talent"
)

// ActivityScore rates a candidate by followers and public repositories, 50/50.
// Missing counters are zero: no activity is a legitimate low score.
func ActivityScore(c talent.Candidate) (float64, string) {
	followers := c.FollowersCount()
	repos := c.PublicReposCount()

	score := 0.5*followersCurve.Score(float64(followers)) + 0.5*publicReposCurve.Score(float64(repos))

	return clampScore(score), fmt.Sprintf("%s, %s", plural(followers, "follower"), plural(repos, "public repo"))
}
