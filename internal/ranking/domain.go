package ranking

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/logger"
	"github.com/spigell/candidate-ranker/internal/talent"
)

const (
	noDomainReasoning = "No domain specified"

	defaultDomainRepos = 10
	// Repositories rated below this are not counted as relevant.
	relevanceThreshold = 0.5
	// Relevance mass at which the domain score saturates.
	domainSaturation = 3.0
)

// DomainScorer rates how relevant a candidate's repositories are to the job domain.
type DomainScorer struct {
	classifier ai.Classifier
	logger     *zap.Logger
	maxRepos   int
}

func NewDomainScorer(classifier ai.Classifier, log *zap.Logger) *DomainScorer {
	return &DomainScorer{
		classifier: classifier,
		logger:     logger.WithFields(log),
		maxRepos:   defaultDomainRepos,
	}
}

// Score returns 0 with an explanation when there is no domain, no repositories or no classifier answer.
func (d *DomainScorer) Score(ctx context.Context, c talent.Candidate, domain string) (float64, string) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return 0, noDomainReasoning
	}

	repos := c.TopRepositories(d.maxRepos)
	if len(repos) == 0 {
		return 0, fmt.Sprintf("No repositories to assess for domain %q", domain)
	}

	req := ai.DomainRequest{Domain: domain, Repositories: make([]ai.RepositorySummary, 0, len(repos))}
	for _, repo := range repos {
		req.Repositories = append(req.Repositories, ai.RepositorySummary{
			Name:        repo.Name,
			Description: repo.Description,
			Language:    repo.Language,
			Topics:      repo.Topics,
		})
	}

	if d.classifier == nil {
		return 0, fmt.Sprintf("Domain relevance unavailable for %q (no classifier); no repositories assessed", domain)
	}

	judged, err := d.classifier.RateDomain(ctx, req)
	if err != nil {
		d.logger.Warn("domain relevance rating failed",
			logger.Candidate(c.Username),
			zap.String("domain", domain),
			zap.Error(err),
		)
		return 0, fmt.Sprintf("Domain relevance unavailable for %q (classifier error); no repositories assessed", domain)
	}

	var (
		mass     float64
		relevant []string
	)
	for _, j := range judged {
		if j.Relevance < relevanceThreshold {
			continue
		}
		mass += math.Min(j.Relevance, 1)
		relevant = append(relevant, j.Name)
	}

	score := math.Min(mass, domainSaturation) / domainSaturation * 100

	if len(relevant) == 0 {
		return 0, fmt.Sprintf("0 of %d repositories relevant to %q", len(repos), domain)
	}

	return clampScore(score), fmt.Sprintf("%d of %d repositories relevant to %q (%s)",
		len(relevant), len(repos), domain, strings.Join(relevant, ", "))
}
