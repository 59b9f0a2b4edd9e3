package ranking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/logger"
	"github.com/spigell/candidate-ranker/internal/talent"
)

// SkillMatch is the outcome of matching required skills against a candidate.
// Every slice follows the job's order of required skills.
type SkillMatch struct {
	Matched []string
	Missing []string
	// Semantic lists matched skills confirmed by the classifier rather than exactly.
	Semantic []string
	// Degraded is set when the classifier could not judge unresolved skills.
	Degraded bool
}

// SkillMatcher resolves required skills exactly first and asks the classifier about the rest
// in a single batched call per candidate.
type SkillMatcher struct {
	classifier ai.Classifier
	logger     *zap.Logger
}

func NewSkillMatcher(classifier ai.Classifier, log *zap.Logger) *SkillMatcher {
	return &SkillMatcher{classifier: classifier, logger: logger.WithFields(log)}
}

// Match expects required skills already deduplicated, as returned by JobRequirement.Skills.
func (m *SkillMatcher) Match(ctx context.Context, required []string, c talent.Candidate) SkillMatch {
	result := SkillMatch{Matched: []string{}, Missing: []string{}, Semantic: []string{}}
	if len(required) == 0 {
		return result
	}

	exact := make(map[string]struct{})
	for _, signal := range c.ExactSignals() {
		exact[signal] = struct{}{}
	}

	resolved := make(map[string]bool, len(required))
	unresolved := make([]string, 0, len(required))
	for _, skill := range required {
		if _, ok := exact[talent.Normalize(skill)]; ok {
			resolved[skill] = true
			continue
		}
		unresolved = append(unresolved, skill)
	}

	semantic := make(map[string]bool)
	signals := c.SemanticSignals()
	if len(unresolved) > 0 && len(signals) > 0 && m.classifier != nil {
		judged, err := m.classifier.MatchSkills(ctx, ai.SkillsRequest{Skills: unresolved, Signals: signals})
		if err != nil {
			m.logger.Warn("semantic skill matching failed, unresolved skills are treated as missing",
				logger.Candidate(c.Username),
				zap.Strings("unresolved", unresolved),
				zap.Error(err),
			)
			result.Degraded = true
		}
		for _, skill := range unresolved {
			if judged[talent.Normalize(skill)] {
				semantic[skill] = true
			}
		}
	}

	for _, skill := range required {
		switch {
		case resolved[skill]:
			result.Matched = append(result.Matched, skill)
		case semantic[skill]:
			result.Matched = append(result.Matched, skill)
			result.Semantic = append(result.Semantic, skill)
		default:
			result.Missing = append(result.Missing, skill)
		}
	}

	return result
}

// Reasoning summarizes the match for the score breakdown.
func (s SkillMatch) Reasoning() string {
	total := len(s.Matched) + len(s.Missing)
	if total == 0 {
		return "No required skills specified"
	}

	text := fmt.Sprintf("%d of %d required skills matched", len(s.Matched), total)
	if len(s.Semantic) > 0 {
		text += fmt.Sprintf(" (%d semantically)", len(s.Semantic))
	}
	if s.Degraded {
		text += "; semantic matching unavailable, unresolved skills counted as missing"
	}
	return text
}

// SkillScore is the matched share of required skills on a 0..100 scale.
// Nothing required means full credit.
func SkillScore(matched, required int) float64 {
	if required <= 0 {
		return 100
	}
	return clampScore(float64(matched) / float64(required) * 100)
}
