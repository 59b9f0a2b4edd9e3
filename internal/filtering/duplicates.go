package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/talent"
)

type duplicatesFilter struct {
	disabled bool
	reason   string
}

// NewDuplicates creates a filter that keeps only the first candidate per username.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *duplicatesFilter) IsEnabled() bool { return !f.disabled }

func (f *duplicatesFilter) Validate(*Config) error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, deps Deps, c *talent.Candidates) (*talent.Candidates, Step, error) {
	initial := c.Len()
	dropped := c.Dedupe()
	if len(dropped) > 0 {
		deps.Logger.Info("dropping duplicate candidates, the first profile wins",
			zap.Strings("duplicates", dropped),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *duplicatesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
