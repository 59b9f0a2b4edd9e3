package talent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// LoadCandidates reads candidates from a JSON or YAML file. The document is either
// a list of candidates or an object with a "candidates" list.
func LoadCandidates(path string) (*Candidates, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	if doc, ok := raw.(map[string]any); ok {
		raw = doc["candidates"]
	}

	var items []Candidate
	if raw != nil {
		if err := decode(raw, &items); err != nil {
			return nil, fmt.Errorf("decoding candidates from %q: %w", path, err)
		}
	}

	if items == nil {
		items = []Candidate{}
	}

	return &Candidates{Items: items}, nil
}

// LoadJob reads a job requirement from a JSON or YAML file.
func LoadJob(path string) (*JobRequirement, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var job JobRequirement
	if raw != nil {
		if err := decode(raw, &job); err != nil {
			return nil, fmt.Errorf("decoding job from %q: %w", path, err)
		}
	}

	return &job, nil
}

// DumpToTmpFile writes candidates as indented JSON to a temporary file and returns its name.
func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// AccountCreated returns the account creation time when it is known.
func (c Candidate) AccountCreated() (time.Time, bool) {
	if c.CreatedAt == nil || c.CreatedAt.IsZero() {
		return time.Time{}, false
	}
	return *c.CreatedAt, true
}

func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var raw any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		return raw, nil
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}

	return raw, nil
}

func decode(input, result any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       stringToTimeHook,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	value := strings.TrimSpace(data.(string))
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}

	return nil, fmt.Errorf("unsupported time format %q", value)
}
