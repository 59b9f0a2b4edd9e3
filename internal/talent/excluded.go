package talent

import (
	"encoding/json"
	"os"
	"time"
)

// ExcludedCandidates is the content of an exclude file.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	Username   string
	Reason     string `json:",omitempty"`
	ExcludedAt time.Time
}

// GetExcludedCandidatesFromFile reads an exclude file. An empty or missing file yields an empty list.
func GetExcludedCandidatesFromFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ExcludedCandidates{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// NewExcluded builds exclude entries for the given usernames.
func NewExcluded(usernames []string, reason string, at time.Time) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, username := range usernames {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			Username:   username,
			Reason:     reason,
			ExcludedAt: at.UTC(),
		})
	}
	return excluded
}

// Append adds entries whose username is not present yet.
func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	known := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		known[Normalize(item.Username)] = struct{}{}
	}

	for _, item := range s.Items {
		key := Normalize(item.Username)
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedCandidates) Usernames() []string {
	names := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		names = append(names, item.Username)
	}
	return names
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
