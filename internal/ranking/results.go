package ranking

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Results is a ranked list in rank order.
type Results []RankedCandidate

func (r Results) Len() int {
	return len(r)
}

func (r Results) FindByUsername(username string) *RankedCandidate {
	for i := range r {
		if strings.EqualFold(r[i].Username, username) {
			return &r[i]
		}
	}
	return nil
}

func (r Results) Usernames() []string {
	names := make([]string, 0, len(r))
	for _, c := range r {
		names = append(names, c.Username)
	}
	return names
}

// Top returns the first n results; n <= 0 returns all of them.
func (r Results) Top(n int) Results {
	if n <= 0 || n >= len(r) {
		return r
	}
	return r[:n]
}

// Summary returns one line per candidate: rank, username, total and factor scores.
func (r Results) Summary() []string {
	lines := make([]string, 0, len(r))
	for _, c := range r {
		lines = append(lines, fmt.Sprintf("#%d %s total=%.2f skills=%.2f experience=%.2f activity=%.2f domain=%.2f",
			c.Rank, c.Username, c.TotalScore, c.SkillMatchScore, c.ExperienceScore, c.ActivityScore, c.DomainScore))
	}
	return lines
}

// Explain renders the breakdown of a single candidate for humans.
func (c RankedCandidate) Explain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s (total %.2f)\n", c.Rank, c.Username, c.TotalScore)
	fmt.Fprintf(&b, "  skills     %6.2f  %s\n", c.SkillMatchScore, c.Breakdown.SkillReasoning)
	if len(c.Breakdown.MatchedSkills) > 0 {
		fmt.Fprintf(&b, "             matched: %s\n", strings.Join(c.Breakdown.MatchedSkills, ", "))
	}
	if len(c.Breakdown.MissingSkills) > 0 {
		fmt.Fprintf(&b, "             missing: %s\n", strings.Join(c.Breakdown.MissingSkills, ", "))
	}
	fmt.Fprintf(&b, "  experience %6.2f  %s\n", c.ExperienceScore, c.Breakdown.ExperienceReasoning)
	fmt.Fprintf(&b, "  activity   %6.2f  %s\n", c.ActivityScore, c.Breakdown.ActivityReasoning)
	fmt.Fprintf(&b, "  domain     %6.2f  %s\n", c.DomainScore, c.Breakdown.DomainReasoning)
	return b.String()
}

// DumpToTmpFile writes the results as indented JSON to a temporary file and returns its name.
func (r Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
