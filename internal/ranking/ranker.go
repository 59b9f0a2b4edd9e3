// Package ranking scores candidates against a job and orders them deterministically.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/logger"
	"github.com/spigell/candidate-ranker/internal/talent"
)

// ErrClassifierUnreachable is returned when the very first classifier call of a run
// fails because the backend cannot be reached.
var ErrClassifierUnreachable = errors.New("semantic classifier is unreachable")

const (
	defaultConcurrency = 8
	defaultCallTimeout = 30 * time.Second
)

// ScoreBreakdown explains how a candidate's scores were reached.
type ScoreBreakdown struct {
	MatchedSkills       []string `json:"matched_skills"`
	MissingSkills       []string `json:"missing_skills"`
	SemanticMatches     []string `json:"semantic_matches"`
	SkillReasoning      string   `json:"skill_reasoning"`
	ExperienceReasoning string   `json:"experience_reasoning"`
	ActivityReasoning   string   `json:"activity_reasoning"`
	DomainReasoning     string   `json:"domain_reasoning"`
}

// RankedCandidate is a candidate with its scores and final position.
type RankedCandidate struct {
	talent.Candidate `json:"candidate"`

	Rank            int            `json:"rank"`
	TotalScore      float64        `json:"total_score"`
	SkillMatchScore float64        `json:"skill_match_score"`
	ExperienceScore float64        `json:"experience_score"`
	ActivityScore   float64        `json:"activity_score"`
	DomainScore     float64        `json:"domain_score"`
	Breakdown       ScoreBreakdown `json:"score_breakdown"`
}

// Ranker orchestrates the scorers. It holds no per-run state and is safe for concurrent use.
type Ranker struct {
	classifier  ai.Classifier
	logger      *zap.Logger
	weights     ScoreWeights
	concurrency int
	callTimeout time.Duration
	asOf        time.Time
	recorder    Recorder
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithWeights sets the weights used by Rank.
func WithWeights(w ScoreWeights) Option {
	return func(r *Ranker) {
		if !w.IsZero() {
			r.weights = w
		}
	}
}

// WithConcurrency limits how many candidates are scored at once.
func WithConcurrency(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithCallTimeout bounds every classifier call.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Ranker) {
		if d > 0 {
			r.callTimeout = d
		}
	}
}

// WithReferenceTime fixes the time account ages are measured against.
func WithReferenceTime(t time.Time) Option {
	return func(r *Ranker) {
		if !t.IsZero() {
			r.asOf = t
		}
	}
}

// WithMetrics reports classifier calls and run durations to rec.
func WithMetrics(rec Recorder) Option {
	return func(r *Ranker) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// New creates a Ranker. The reference time for account ages is captured here unless
// WithReferenceTime is given, so repeated runs on one Ranker are reproducible.
func New(classifier ai.Classifier, log *zap.Logger, opts ...Option) (*Ranker, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}

	r := &Ranker{
		classifier:  classifier,
		logger:      logger.WithFields(log),
		weights:     DefaultScoreWeights(),
		concurrency: defaultConcurrency,
		callTimeout: defaultCallTimeout,
		asOf:        time.Now().UTC(),
		recorder:    nopRecorder{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Weights returns the configured weights.
func (r *Ranker) Weights() ScoreWeights {
	return r.weights
}

// Rank scores and orders candidates using the configured weights.
func (r *Ranker) Rank(ctx context.Context, candidates []talent.Candidate, job talent.JobRequirement) ([]RankedCandidate, error) {
	return r.RankWithWeights(ctx, candidates, job, r.weights)
}

// RankWithWeights scores and orders candidates. The result is sorted by total score, then
// followers, both descending; complete ties keep input order. Ranks are 1..N.
// Classifier failures lower scores instead of failing the run, except when the first
// call of the run finds the classifier unreachable.
func (r *Ranker) RankWithWeights(ctx context.Context, candidates []talent.Candidate, job talent.JobRequirement, weights ScoreWeights) ([]RankedCandidate, error) {
	if weights.IsZero() {
		return nil, fmt.Errorf("%w: weights must be built with NewScoreWeights", ErrInvalidWeights)
	}

	ranked := make([]RankedCandidate, len(candidates))
	if len(candidates) == 0 {
		return ranked, nil
	}

	start := time.Now()
	run := &evaluation{
		skills:  job.Skills(),
		domain:  job.DomainName(),
		weights: weights.Active(job.HasDomain()),
		asOf:    r.asOf,
		gate:    newGate(r.classifier, r.callTimeout, r.recorder),
		logger:  r.logger,
	}
	run.matcher = NewSkillMatcher(run.gate, r.logger)
	run.domainScorer = NewDomainScorer(run.gate, r.logger)

	r.logger.Info("ranking candidates",
		zap.Int("candidates", len(candidates)),
		zap.Strings("required_skills", run.skills),
		zap.String("domain", run.domain),
		zap.Stringer("weights", run.weights),
	)

	// Score sequentially until the classifier has been called once, so an unreachable
	// backend is reported once instead of degrading every candidate.
	next := 0
	for next < len(candidates) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ranked[next] = run.score(ctx, candidates[next])
		next++
		if run.gate.called() {
			break
		}
	}

	if err := run.gate.unreachable(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassifierUnreachable, err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)
	for i := next; i < len(candidates); i++ {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			ranked[i] = run.score(groupCtx, candidates[i])
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortRanked(ranked)

	elapsed := time.Since(start)
	r.recorder.Ranked(len(ranked), elapsed)
	r.logger.Info("ranking completed",
		zap.Int("candidates", len(ranked)),
		zap.Int64("classifier_calls", run.gate.calls.Load()),
		zap.Int64("classifier_failures", run.gate.failures.Load()),
		zap.Duration("elapsed", elapsed),
	)

	return ranked, nil
}

// sortRanked orders by total score, then followers, and assigns dense ranks.
func sortRanked(ranked []RankedCandidate) {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].FollowersCount() > ranked[j].FollowersCount()
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
}

// evaluation is the immutable per-run context shared by all candidate pipelines.
type evaluation struct {
	skills       []string
	domain       string
	weights      ScoreWeights
	asOf         time.Time
	gate         *gate
	matcher      *SkillMatcher
	domainScorer *DomainScorer
	logger       *zap.Logger
}

func (e *evaluation) score(ctx context.Context, c talent.Candidate) RankedCandidate {
	match := e.matcher.Match(ctx, e.skills, c)
	skillScore := SkillScore(len(match.Matched), len(e.skills))

	experience, experienceReasoning := ExperienceScore(c, e.asOf)
	activity, activityReasoning := ActivityScore(c)
	domain, domainReasoning := e.domainScorer.Score(ctx, c, e.domain)

	total := clampScore(e.weights.Total(skillScore, experience, activity, domain))

	e.logger.Debug("candidate scored",
		logger.Candidate(c.Username),
		zap.Float64("total", total),
		zap.Float64("skills", skillScore),
		zap.Float64("experience", experience),
		zap.Float64("activity", activity),
		zap.Float64("domain", domain),
	)

	return RankedCandidate{
		Candidate:       c,
		TotalScore:      total,
		SkillMatchScore: skillScore,
		ExperienceScore: experience,
		ActivityScore:   activity,
		DomainScore:     domain,
		Breakdown: ScoreBreakdown{
			MatchedSkills:       match.Matched,
			MissingSkills:       match.Missing,
			SemanticMatches:     match.Semantic,
			SkillReasoning:      match.Reasoning(),
			ExperienceReasoning: experienceReasoning,
			ActivityReasoning:   activityReasoning,
			DomainReasoning:     domainReasoning,
		},
	}
}
