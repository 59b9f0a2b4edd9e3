package talent

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	UsernameField = "Username"
	NameField     = "Name"
)

// Candidate is a sourced developer profile.
type Candidate struct {
	Username     string       `json:"github_username"`
	Name         string       `json:"name,omitempty"`
	Skills       []string     `json:"skills,omitempty"`
	Repositories []Repository `json:"repositories,omitempty"`
	Followers    int          `json:"followers_count"`
	PublicRepos  int          `json:"public_repos_count"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
}

// Repository is a public repository descriptor of a candidate.
type Repository struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Stars       int      `json:"stars"`
	Language    string   `json:"language,omitempty"`
	Topics      []string `json:"topics,omitempty"`
}

// Candidates is an ordered list of candidates.
type Candidates struct {
	Items []Candidate `json:"candidates"`
}

// FollowersCount returns the follower count, treating negative values as zero.
func (c Candidate) FollowersCount() int {
	return max(c.Followers, 0)
}

// PublicReposCount returns the public repository count, treating negative values as zero.
func (c Candidate) PublicReposCount() int {
	return max(c.PublicRepos, 0)
}

// RepoCount is the number of repositories used for experience scoring.
// The profile counter wins; the listed repositories are used when it is not set.
func (c Candidate) RepoCount() int {
	if n := c.PublicReposCount(); n > 0 {
		return n
	}
	return len(c.Repositories)
}

// TotalStars sums stars across listed repositories.
func (c Candidate) TotalStars() int {
	total := 0
	for _, repo := range c.Repositories {
		total += max(repo.Stars, 0)
	}
	return total
}

// ExactSignals returns normalized signals that can satisfy a required skill
// without interpretation: repository languages, repository topics and declared skills.
func (c Candidate) ExactSignals() []string {
	seen := make(map[string]struct{})
	signals := make([]string, 0)

	add := func(s string) {
		n := Normalize(s)
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		signals = append(signals, n)
	}

	for _, skill := range c.Skills {
		add(skill)
	}
	for _, repo := range c.Repositories {
		add(repo.Language)
		for _, topic := range repo.Topics {
			add(topic)
		}
	}

	return signals
}

// SemanticSignals returns the exact signals followed by "name: description" of every repository.
func (c Candidate) SemanticSignals() []string {
	signals := c.ExactSignals()
	for _, repo := range c.Repositories {
		name := strings.TrimSpace(repo.Name)
		if name == "" {
			continue
		}
		desc := strings.TrimSpace(repo.Description)
		if desc == "" {
			signals = append(signals, name)
			continue
		}
		signals = append(signals, fmt.Sprintf("%s: %s", name, desc))
	}
	return signals
}

// TopRepositories returns up to limit repositories ordered by stars descending, then name.
func (c Candidate) TopRepositories(limit int) []Repository {
	repos := make([]Repository, 0, len(c.Repositories))
	for _, repo := range c.Repositories {
		if strings.TrimSpace(repo.Name) == "" {
			continue
		}
		repos = append(repos, repo)
	}

	sort.SliceStable(repos, func(i, j int) bool {
		if repos[i].Stars != repos[j].Stars {
			return repos[i].Stars > repos[j].Stars
		}
		return repos[i].Name < repos[j].Name
	})

	if limit > 0 && len(repos) > limit {
		repos = repos[:limit]
	}
	return repos
}

// GetStringField returns the value of a string field addressed by name.
func (c Candidate) GetStringField(name string) string {
	switch name {
	case UsernameField:
		return c.Username
	case NameField:
		return c.Name
	default:
		return ""
	}
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) Usernames() []string {
	names := make([]string, 0, len(c.Items))
	for _, candidate := range c.Items {
		names = append(names, candidate.Username)
	}
	return names
}

// Dedupe drops repeated usernames (case-insensitive); the first occurrence wins.
// Returns the dropped usernames.
func (c *Candidates) Dedupe() []string {
	seen := make(map[string]struct{}, len(c.Items))

	var dropped []string
	kept := c.Items[:0]
	for _, candidate := range c.Items {
		key := Normalize(candidate.Username)
		if key != "" {
			if _, ok := seen[key]; ok {
				dropped = append(dropped, candidate.Username)
				continue
			}
			seen[key] = struct{}{}
		}
		kept = append(kept, candidate)
	}
	c.Items = kept

	return dropped
}

// Exclude removes candidates whose field matches any target (case-insensitive).
// Order of the remaining candidates is preserved. Returns the removed usernames.
func (c *Candidates) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	lookup := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if n := Normalize(target); n != "" {
			lookup[n] = struct{}{}
		}
	}

	var excluded []string
	kept := c.Items[:0]
	for _, candidate := range c.Items {
		if _, ok := lookup[Normalize(candidate.GetStringField(name))]; ok {
			excluded = append(excluded, candidate.Username)
			continue
		}
		kept = append(kept, candidate)
	}
	c.Items = kept

	return excluded
}

// Normalize returns the case-insensitive comparable form of a skill or signal.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
