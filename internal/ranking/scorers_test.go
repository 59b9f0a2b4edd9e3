package ranking

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/talent"
)

var referenceTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func yearsAgo(years int) *time.Time {
	t := referenceTime.AddDate(-years, 0, 0)
	return &t
}

func TestExperienceScoreSeniorCandidate(t *testing.T) {
	t.Parallel()

	c := talent.Candidate{
		Username:    "veteran",
		CreatedAt:   yearsAgo(7),
		PublicRepos: 60,
		Repositories: []talent.Repository{
			{Name: "framework", Stars: 1000},
			{Name: "plugin", Stars: 200},
		},
	}

	score, reasoning := ExperienceScore(c, referenceTime)
	if score < 85 || score > 100 {
		t.Fatalf("expected experience score in 85..100, got %v", score)
	}

	if reasoning != "7-year-old account, 1200 total stars across 60 repos" {
		t.Fatalf("unexpected reasoning: %q", reasoning)
	}
}

func TestExperienceScoreUnknownAge(t *testing.T) {
	t.Parallel()

	c := talent.Candidate{Username: "anon"}

	score, reasoning := ExperienceScore(c, referenceTime)
	if !strings.Contains(reasoning, "assumed 3 years") {
		t.Fatalf("fallback must be visible in reasoning: %q", reasoning)
	}
	// 0.4 * 60 for the assumed age, nothing else.
	if score != 24 {
		t.Fatalf("expected 24, got %v", score)
	}

	young := talent.Candidate{CreatedAt: func() *time.Time { t := referenceTime.AddDate(0, 0, -100); return &t }()}
	if _, reasoning := ExperienceScore(young, referenceTime); !strings.HasPrefix(reasoning, "100-day-old account") {
		t.Fatalf("unexpected reasoning for young account: %q", reasoning)
	}
}

func TestExperienceScoreIsStableWithinADay(t *testing.T) {
	t.Parallel()

	created := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	c := talent.Candidate{CreatedAt: &created, PublicRepos: 12}

	morning, morningReason := ExperienceScore(c, time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC))
	evening, eveningReason := ExperienceScore(c, time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC))
	if morning != evening || morningReason != eveningReason {
		t.Fatalf("expected identical scores on the same day, got %v (%q) and %v (%q)", morning, morningReason, evening, eveningReason)
	}

	nextDay, _ := ExperienceScore(c, time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC))
	if nextDay < morning {
		t.Fatalf("an older account must not score lower: %v < %v", nextDay, morning)
	}
}

func TestExperienceScoreFutureCreationDate(t *testing.T) {
	t.Parallel()

	future := referenceTime.AddDate(1, 0, 0)
	score, _ := ExperienceScore(talent.Candidate{CreatedAt: &future}, referenceTime)
	if score != 0 {
		t.Fatalf("expected a clamped age of zero, got %v", score)
	}
}

func TestActivityScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate talent.Candidate
		score     float64
		reasoning string
	}{
		{name: "missing counters", candidate: talent.Candidate{}, score: 0, reasoning: "0 followers, 0 public repos"},
		{name: "mid", candidate: talent.Candidate{Followers: 100, PublicRepos: 20}, score: 65, reasoning: "100 followers, 20 public repos"},
		{name: "singular", candidate: talent.Candidate{Followers: 1, PublicRepos: 1}, score: 5.5, reasoning: "1 follower, 1 public repo"},
		{name: "saturated", candidate: talent.Candidate{Followers: 50000, PublicRepos: 400}, score: 100, reasoning: "50000 followers, 400 public repos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, reasoning := ActivityScore(tt.candidate)
			if score != tt.score {
				t.Fatalf("expected %v, got %v", tt.score, score)
			}
			if reasoning != tt.reasoning {
				t.Fatalf("expected %q, got %q", tt.reasoning, reasoning)
			}
		})
	}
}

func TestSkillScore(t *testing.T) {
	t.Parallel()

	if SkillScore(0, 0) != 100 {
		t.Fatalf("no required skills must give full credit")
	}
	if SkillScore(3, 5) != 60 {
		t.Fatalf("expected 60")
	}
	if SkillScore(1, 3) != 33.33 {
		t.Fatalf("expected rounding to two decimals, got %v", SkillScore(1, 3))
	}
}

func scenarioCandidate() talent.Candidate {
	return talent.Candidate{
		Username: "fullstack",
		Repositories: []talent.Repository{
			{Name: "etl", Language: "Python"},
			{Name: "reports", Language: "SQL"},
			{Name: "dashboard", Language: "JavaScript", Description: "React admin dashboard"},
		},
	}
}

func TestSkillMatcherExactAndSemantic(t *testing.T) {
	t.Parallel()

	stub := &stubClassifier{skills: map[string]bool{"react": true}}
	matcher := NewSkillMatcher(stub, zap.NewNop())

	required := talent.JobRequirement{RequiredSkills: []string{"Python", "React", "SQL", "Docker", "AWS"}}.Skills()
	match := matcher.Match(context.Background(), required, scenarioCandidate())

	if !reflect.DeepEqual(match.Matched, []string{"Python", "React", "SQL"}) {
		t.Fatalf("unexpected matched: %v", match.Matched)
	}
	if !reflect.DeepEqual(match.Missing, []string{"Docker", "AWS"}) {
		t.Fatalf("unexpected missing: %v", match.Missing)
	}
	if !reflect.DeepEqual(match.Semantic, []string{"React"}) {
		t.Fatalf("unexpected semantic: %v", match.Semantic)
	}
	if got := SkillScore(len(match.Matched), len(required)); got != 60 {
		t.Fatalf("expected skill score 60, got %v", got)
	}

	if stub.skillCalls.Load() != 1 {
		t.Fatalf("expected one batched classifier call, got %d", stub.skillCalls.Load())
	}
	if !reflect.DeepEqual(stub.skillRequests[0].Skills, []string{"React", "Docker", "AWS"}) {
		t.Fatalf("only unresolved skills must be sent: %v", stub.skillRequests[0].Skills)
	}
	if match.Reasoning() != "3 of 5 required skills matched (1 semantically)" {
		t.Fatalf("unexpected reasoning: %q", match.Reasoning())
	}
}

func TestSkillMatcherNoRequiredSkills(t *testing.T) {
	t.Parallel()

	stub := &stubClassifier{}
	match := NewSkillMatcher(stub, nil).Match(context.Background(), nil, scenarioCandidate())

	if len(match.Matched) != 0 || len(match.Missing) != 0 {
		t.Fatalf("expected empty sets, got %+v", match)
	}
	if stub.calls() != 0 {
		t.Fatalf("expected no classifier call")
	}
}

func TestSkillMatcherAllExact(t *testing.T) {
	t.Parallel()

	stub := &stubClassifier{}
	match := NewSkillMatcher(stub, nil).Match(context.Background(), []string{"python", "SQL"}, scenarioCandidate())

	if len(match.Missing) != 0 || stub.calls() != 0 {
		t.Fatalf("exact matches must not call the classifier: %+v, calls=%d", match, stub.calls())
	}
}

func TestSkillMatcherClassifierFailure(t *testing.T) {
	t.Parallel()

	stub := &stubClassifier{err: errors.New("boom")}
	match := NewSkillMatcher(stub, zap.NewNop()).Match(context.Background(), []string{"Python", "React"}, scenarioCandidate())

	if !reflect.DeepEqual(match.Matched, []string{"Python"}) || !reflect.DeepEqual(match.Missing, []string{"React"}) {
		t.Fatalf("unresolved skills must degrade to missing: %+v", match)
	}
	if !match.Degraded || !strings.Contains(match.Reasoning(), "semantic matching unavailable") {
		t.Fatalf("degradation must be visible: %q", match.Reasoning())
	}
}

func TestDomainScorer(t *testing.T) {
	t.Parallel()

	repos := []talent.Repository{
		{Name: "ledger", Stars: 40},
		{Name: "payments-api", Stars: 30},
		{Name: "fx-rates", Stars: 20},
		{Name: "kyc", Stars: 10},
		{Name: "dotfiles", Stars: 5},
	}

	tests := []struct {
		name      string
		domain    string
		repos     []talent.Repository
		relevance map[string]float64
		err       error
		score     float64
		reasoning string
		calls     int64
	}{
		{name: "no domain", domain: "", repos: repos, score: 0, reasoning: "No domain specified"},
		{name: "no repositories", domain: "fintech", score: 0, reasoning: `No repositories to assess for domain "fintech"`},
		{
			name: "saturates", domain: "fintech", repos: repos, calls: 1, score: 100,
			relevance: map[string]float64{"ledger": 1, "payments-api": 1, "fx-rates": 0.9, "kyc": 0.8},
			reasoning: `4 of 5 repositories relevant to "fintech" (ledger, payments-api, fx-rates, kyc)`,
		},
		{
			name: "single strong repo", domain: "fintech", repos: repos, calls: 1, score: 30,
			relevance: map[string]float64{"ledger": 0.9, "dotfiles": 0.2},
			reasoning: `1 of 5 repositories relevant to "fintech" (ledger)`,
		},
		{
			name: "nothing relevant", domain: "fintech", repos: repos, calls: 1, score: 0,
			reasoning: `0 of 5 repositories relevant to "fintech"`,
		},
		{
			name: "classifier error", domain: "fintech", repos: repos, calls: 1, score: 0, err: errors.New("timeout"),
			reasoning: `Domain relevance unavailable for "fintech" (classifier error); no repositories assessed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stub := &stubClassifier{relevance: tt.relevance, err: tt.err}
			scorer := NewDomainScorer(stub, zap.NewNop())

			score, reasoning := scorer.Score(context.Background(), talent.Candidate{Repositories: tt.repos}, tt.domain)
			if score != tt.score {
				t.Fatalf("expected %v, got %v", tt.score, score)
			}
			if reasoning != tt.reasoning {
				t.Fatalf("expected %q, got %q", tt.reasoning, reasoning)
			}
			if stub.domainCalls.Load() != tt.calls {
				t.Fatalf("expected %d calls, got %d", tt.calls, stub.domainCalls.Load())
			}
		})
	}
}

func TestDomainScorerLimitsRepositories(t *testing.T) {
	t.Parallel()

	repos := make([]talent.Repository, 0, 25)
	for i := range 25 {
		repos = append(repos, talent.Repository{Name: string(rune('a' + i)), Stars: i})
	}

	var seen int
	stub := &countingDomainClassifier{onRate: func(n int) { seen = n }}
	NewDomainScorer(stub, nil).Score(context.Background(), talent.Candidate{Repositories: repos}, "games")

	if seen != defaultDomainRepos {
		t.Fatalf("expected %d repositories sent, got %d", defaultDomainRepos, seen)
	}
}

type countingDomainClassifier struct {
	stubClassifier
	onRate func(n int)
}

func (c *countingDomainClassifier) RateDomain(ctx context.Context, req ai.DomainRequest) ([]ai.Relevance, error) {
	c.onRate(len(req.Repositories))
	return c.stubClassifier.RateDomain(ctx, req)
}
