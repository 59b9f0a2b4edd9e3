package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/talent"
)

type excludedUsersFilter struct {
	users []string
	names []string

	disabled bool
	reason   string
}

// NewExcludedUsers creates a filter that removes candidates listed in the exclude-users
// and exclude-names settings.
func NewExcludedUsers() Filter {
	return &excludedUsersFilter{}
}

func (f *excludedUsersFilter) Name() string { return "excluded_users" }

func (f *excludedUsersFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludedUsersFilter) IsEnabled() bool { return !f.disabled }

func (f *excludedUsersFilter) Validate(cfg *Config) error {
	f.users, f.names = nil, nil
	if cfg != nil {
		f.users = append(f.users, cfg.ExcludeUsers...)
		f.names = append(f.names, cfg.ExcludeNames...)
	}
	return nil
}

func (f *excludedUsersFilter) Apply(_ context.Context, deps Deps, c *talent.Candidates) (*talent.Candidates, Step, error) {
	initial := c.Len()

	byUsername := c.Exclude(talent.UsernameField, f.users)
	if len(byUsername) > 0 {
		deps.Logger.Info("excluding candidates by configured usernames",
			zap.Strings("excluded_candidates", byUsername),
			zap.Int("candidates_left", c.Len()),
		)
	}

	byName := c.Exclude(talent.NameField, f.names)
	if len(byName) > 0 {
		deps.Logger.Info("excluding candidates by configured names",
			zap.Strings("excluded_candidates", byName),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: initial - c.Len(), Left: c.Len()}, nil
}

func (f *excludedUsersFilter) Status() Status {
	details := map[string]string{}
	if len(f.users) > 0 {
		details["users"] = strings.Join(f.users, ",")
	}
	if len(f.names) > 0 {
		details["names"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
