// Package cache memoizes classifier judgments so reruns over the same candidates
// do not pay for the same model calls twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/talent"
)

const (
	defaultTTL       = 24 * time.Hour
	defaultNamespace = "default"
	keyPrefix        = "candidate-ranker"
)

// Classifier is an ai.Classifier decorator backed by a Store. Only successful
// judgments are stored; errors always reach the caller.
type Classifier struct {
	next      ai.Classifier
	store     Store
	ttl       time.Duration
	namespace string
	logger    *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTTL sets how long judgments are kept.
func WithTTL(ttl time.Duration) Option {
	return func(c *Classifier) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithNamespace separates judgments of different backends or models.
func WithNamespace(namespace string) Option {
	return func(c *Classifier) {
		if namespace != "" {
			c.namespace = namespace
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(next ai.Classifier, store Store, opts ...Option) *Classifier {
	if store == nil {
		store = NewMemoryStore()
	}

	c := &Classifier{
		next:      next,
		store:     store,
		ttl:       defaultTTL,
		namespace: defaultNamespace,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) MatchSkills(ctx context.Context, req ai.SkillsRequest) (map[string]bool, error) {
	skills := make([]string, 0, len(req.Skills))
	for _, skill := range req.Skills {
		skills = append(skills, talent.Normalize(skill))
	}
	key := c.key("skills", struct {
		Skills  []string `json:"skills"`
		Signals []string `json:"signals"`
	}{skills, req.Signals})

	var cached map[string]bool
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	result, err := c.next.MatchSkills(ctx, req)
	if err != nil {
		return nil, err
	}

	c.save(ctx, key, result)
	return result, nil
}

func (c *Classifier) RateDomain(ctx context.Context, req ai.DomainRequest) ([]ai.Relevance, error) {
	key := c.key("domain", struct {
		Domain       string                 `json:"domain"`
		Repositories []ai.RepositorySummary `json:"repositories"`
	}{talent.Normalize(req.Domain), req.Repositories})

	var cached []ai.Relevance
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	result, err := c.next.RateDomain(ctx, req)
	if err != nil {
		return nil, err
	}

	c.save(ctx, key, result)
	return result, nil
}

func (c *Classifier) key(operation string, payload any) string {
	b, _ := json.Marshal(payload)
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, c.namespace, operation, hex.EncodeToString(sum[:]))
}

// load treats store failures and undecodable entries as misses.
func (c *Classifier) load(ctx context.Context, key string, out any) bool {
	b, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("classifier cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		c.logger.Warn("classifier cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	c.logger.Debug("classifier cache hit", zap.String("key", key))
	return true
}

func (c *Classifier) save(ctx context.Context, key string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("classifier cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
		c.logger.Warn("classifier cache write failed", zap.String("key", key), zap.Error(err))
	}
}
