package ranking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spigell/candidate-ranker/internal/ai"
)

const (
	opMatchSkills = "match_skills"
	opRateDomain  = "rate_domain"
)

// Recorder receives ranking telemetry. Implemented by metrics.Manager.
type Recorder interface {
	ClassifierCall(operation string, err error, elapsed time.Duration)
	Ranked(candidates int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ClassifierCall(string, error, time.Duration) {}
func (nopRecorder) Ranked(int, time.Duration)                   {}

// gate wraps the classifier for a single ranking run: it bounds every call with a
// timeout, reports telemetry and remembers whether any call has succeeded yet.
type gate struct {
	next     ai.Classifier
	timeout  time.Duration
	recorder Recorder

	calls     atomic.Int64
	failures  atomic.Int64
	successes atomic.Int64

	mu       sync.Mutex
	firstErr error
}

func newGate(next ai.Classifier, timeout time.Duration, recorder Recorder) *gate {
	return &gate{next: next, timeout: timeout, recorder: recorder}
}

func (g *gate) MatchSkills(ctx context.Context, req ai.SkillsRequest) (map[string]bool, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	start := time.Now()
	result, err := g.next.MatchSkills(ctx, req)
	g.record(opMatchSkills, start, err)
	return result, err
}

func (g *gate) RateDomain(ctx context.Context, req ai.DomainRequest) ([]ai.Relevance, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	start := time.Now()
	result, err := g.next.RateDomain(ctx, req)
	g.record(opRateDomain, start, err)
	return result, err
}

func (g *gate) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *gate) record(operation string, start time.Time, err error) {
	g.calls.Add(1)
	g.recorder.ClassifierCall(operation, err, time.Since(start))

	if err == nil {
		g.successes.Add(1)
		return
	}

	g.failures.Add(1)
	g.mu.Lock()
	if g.firstErr == nil {
		g.firstErr = err
	}
	g.mu.Unlock()
}

func (g *gate) called() bool {
	return g.calls.Load() > 0
}

// unreachable returns the first error when calls were made, none succeeded and the
// first failure says the backend could not be reached.
func (g *gate) unreachable() error {
	if g.calls.Load() == 0 || g.successes.Load() > 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if errors.Is(g.firstErr, ai.ErrUnavailable) {
		return g.firstErr
	}
	return nil
}
