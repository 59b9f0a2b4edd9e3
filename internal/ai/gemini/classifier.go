package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/talent"
	"github.com/spigell/candidate-ranker/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Classifier implements ai.Classifier on top of a Gemini generator.
type Classifier struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var (
	//go:embed skills_prompt.md
	skillsPrompt string
	//go:embed domain_prompt.md
	domainPrompt string
)

const defaultMaxLogLength = 200

func NewClassifier(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Classifier {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (c *Classifier) MatchSkills(ctx context.Context, req ai.SkillsRequest) (map[string]bool, error) {
	if len(req.Skills) == 0 {
		return map[string]bool{}, nil
	}

	payload, err := json.MarshalIndent(map[string]any{
		"skills":  req.Skills,
		"signals": nonNil(req.Signals),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal skills payload: %w", err)
	}

	raw, err := c.generate(ctx, "match_skills", skillsPrompt, string(payload))
	if err != nil {
		return nil, err
	}

	return parseSkillsResponse(raw, req.Skills)
}

func (c *Classifier) RateDomain(ctx context.Context, req ai.DomainRequest) ([]ai.Relevance, error) {
	if len(req.Repositories) == 0 {
		return []ai.Relevance{}, nil
	}

	repos := make([]map[string]any, 0, len(req.Repositories))
	for _, repo := range req.Repositories {
		repos = append(repos, map[string]any{
			"name":        repo.Name,
			"description": repo.Description,
			"language":    repo.Language,
			"topics":      nonNil(repo.Topics),
		})
	}

	payload, err := json.MarshalIndent(map[string]any{
		"domain":       req.Domain,
		"repositories": repos,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal domain payload: %w", err)
	}

	raw, err := c.generate(ctx, "rate_domain", domainPrompt, string(payload))
	if err != nil {
		return nil, err
	}

	return parseDomainResponse(raw, req.Repositories)
}

func (c *Classifier) generate(ctx context.Context, operation, system, message string) (string, error) {
	if c == nil || c.generator == nil {
		return "", fmt.Errorf("%w: gemini classifier is not initialized", ai.ErrUnavailable)
	}

	c.logger.Debug("gemini generate content request",
		zap.String("operation", operation),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.LogPreview(message, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return "", err
	}

	c.logger.Debug("gemini generate content response",
		zap.String("operation", operation),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.LogPreview(raw, c.maxLogLen)),
	)

	return raw, nil
}

func parseSkillsResponse(raw string, requested []string) (map[string]bool, error) {
	items, err := parseList(raw, "skills")
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(requested))
	for _, skill := range requested {
		wanted[talent.Normalize(skill)] = struct{}{}
	}

	result := make(map[string]bool, len(requested))
	for _, item := range items {
		key := talent.Normalize(coerceString(item["skill"]))
		if _, ok := wanted[key]; !ok {
			continue
		}
		// Any positive judgment wins over a negative duplicate.
		result[key] = result[key] || coerceBool(item["matched"])
	}

	return result, nil
}

func parseDomainResponse(raw string, requested []ai.RepositorySummary) ([]ai.Relevance, error) {
	items, err := parseList(raw, "repositories")
	if err != nil {
		return nil, err
	}

	byName := make(map[string]ai.Relevance, len(items))
	for _, item := range items {
		name := coerceString(item["name"])
		score := coerceFloat(item["relevance"])
		if math.IsNaN(score) {
			score = 0
		}
		if score > 1 && score <= 100 {
			score /= 100
		}
		byName[strings.ToLower(name)] = ai.Relevance{
			Name:      name,
			Relevance: math.Max(0, math.Min(1, score)),
			Reason:    coerceString(item["reason"]),
		}
	}

	result := make([]ai.Relevance, 0, len(requested))
	for _, repo := range requested {
		judged, ok := byName[strings.ToLower(repo.Name)]
		if !ok {
			judged = ai.Relevance{Reason: "not rated"}
		}
		judged.Name = repo.Name
		result = append(result, judged)
	}

	return result, nil
}

func parseList(raw, key string) ([]map[string]any, error) {
	cleaned := extractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var list []any
	switch typed := data.(type) {
	case map[string]any:
		inner, ok := typed[key].([]any)
		if !ok {
			return nil, fmt.Errorf("parse gemini response: %q list is missing", key)
		}
		list = inner
	case []any:
		list = typed
	default:
		return nil, errors.New("parse gemini response: unexpected json shape")
	}

	items := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if item, ok := entry.(map[string]any); ok {
			items = append(items, item)
		}
	}

	return items, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
