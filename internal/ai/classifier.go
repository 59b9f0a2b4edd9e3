package ai

import (
	"context"
	"errors"
)

// ErrUnavailable marks failures to reach the classifier backend at all
// (transport, authentication, exhausted retries), as opposed to bad answers.
var ErrUnavailable = errors.New("classifier is unavailable")

// SkillsRequest asks which skills are implied by a candidate's signals.
type SkillsRequest struct {
	// Skills are the unresolved required skills.
	Skills []string
	// Signals are free-form candidate signals: languages, topics, "repo: description".
	Signals []string
}

// RepositorySummary is the part of a repository a classifier judges.
type RepositorySummary struct {
	Name        string
	Description string
	Language    string
	Topics      []string
}

// DomainRequest asks how relevant each repository is to a domain.
type DomainRequest struct {
	Domain       string
	Repositories []RepositorySummary
}

// Relevance is a judgment for a single repository, in [0, 1].
type Relevance struct {
	Name      string
	Relevance float64
	Reason    string
}

// Classifier is the semantic-matching capability used by the ranking engine.
// Implementations must be safe for concurrent use. One call covers a whole
// candidate: every unresolved skill, or every repository.
type Classifier interface {
	// MatchSkills returns, for each requested skill keyed by its normalized form,
	// whether any of the signals implies it. Skills absent from the map are not matched.
	MatchSkills(ctx context.Context, req SkillsRequest) (map[string]bool, error)
	// RateDomain returns a relevance judgment per repository.
	RateDomain(ctx context.Context, req DomainRequest) ([]Relevance, error)
}
