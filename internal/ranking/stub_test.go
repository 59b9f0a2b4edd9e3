package ranking

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/talent"
)

type stubClassifier struct {
	skills    map[string]bool
	relevance map[string]float64
	err       error
	// errAfter makes calls fail only after this many successful ones.
	errAfter int64
	block    bool

	skillCalls  atomic.Int64
	domainCalls atomic.Int64

	mu            sync.Mutex
	skillRequests []ai.SkillsRequest
}

func (s *stubClassifier) fail() error {
	if s.err == nil {
		return nil
	}
	if s.skillCalls.Load()+s.domainCalls.Load() > s.errAfter {
		return s.err
	}
	return nil
}

func (s *stubClassifier) MatchSkills(ctx context.Context, req ai.SkillsRequest) (map[string]bool, error) {
	s.skillCalls.Add(1)
	s.mu.Lock()
	s.skillRequests = append(s.skillRequests, req)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := s.fail(); err != nil {
		return nil, err
	}

	result := make(map[string]bool)
	for _, skill := range req.Skills {
		key := talent.Normalize(skill)
		if s.skills[key] {
			result[key] = true
		}
	}
	return result, nil
}

func (s *stubClassifier) RateDomain(ctx context.Context, req ai.DomainRequest) ([]ai.Relevance, error) {
	s.domainCalls.Add(1)

	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := s.fail(); err != nil {
		return nil, err
	}

	result := make([]ai.Relevance, 0, len(req.Repositories))
	for _, repo := range req.Repositories {
		result = append(result, ai.Relevance{Name: repo.Name, Relevance: s.relevance[repo.Name]})
	}
	return result, nil
}

func (s *stubClassifier) calls() int64 {
	return s.skillCalls.Load() + s.domainCalls.Load()
}
