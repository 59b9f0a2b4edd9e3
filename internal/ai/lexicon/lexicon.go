// Package lexicon is an offline, deterministic ai.Classifier built on term tables.
// It trades the judgment of a language model for reproducibility and zero network access.
package lexicon

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/spigell/candidate-ranker/internal/ai"
	"github.com/spigell/candidate-ranker/internal/talent"
)

// Relevance assigned per distinct keyword hit; three hits saturate.
const hitRelevance = 0.35

// Classifier matches skills and domains by token and phrase lookup. It is safe for concurrent use.
type Classifier struct {
	synonyms map[string][]string
	domains  map[string][]string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithSynonyms adds or replaces synonym entries for skills.
func WithSynonyms(extra map[string][]string) Option {
	return func(c *Classifier) {
		for skill, terms := range extra {
			c.synonyms[talent.Normalize(skill)] = terms
		}
	}
}

// WithDomainKeywords adds or replaces keyword entries for domains.
func WithDomainKeywords(extra map[string][]string) Option {
	return func(c *Classifier) {
		for domain, terms := range extra {
			c.domains[talent.Normalize(domain)] = terms
		}
	}
}

func New(opts ...Option) *Classifier {
	c := &Classifier{
		synonyms: make(map[string][]string, len(Synonyms)),
		domains:  make(map[string][]string, len(DomainKeywords)),
	}
	for k, v := range Synonyms {
		c.synonyms[k] = v
	}
	for k, v := range DomainKeywords {
		c.domains[k] = v
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MatchSkills reports a skill as matched when the skill itself or one of its synonyms
// appears as a whole phrase in any signal.
func (c *Classifier) MatchSkills(ctx context.Context, req ai.SkillsRequest) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	corpus := phraseCorpus(req.Signals)
	result := make(map[string]bool, len(req.Skills))
	for _, skill := range req.Skills {
		key := talent.Normalize(skill)
		if key == "" {
			continue
		}
		for _, term := range c.skillTerms(key) {
			if containsPhrase(corpus, term) {
				result[key] = true
				break
			}
		}
	}
	return result, nil
}

// RateDomain rates every repository by the distinct domain keywords found in its
// name, description, language and topics. Results follow request order.
func (c *Classifier) RateDomain(ctx context.Context, req ai.DomainRequest) ([]ai.Relevance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := c.domainTerms(talent.Normalize(req.Domain))
	result := make([]ai.Relevance, 0, len(req.Repositories))
	for _, repo := range req.Repositories {
		corpus := phraseCorpus(append([]string{repo.Name, repo.Description, repo.Language}, repo.Topics...))

		hits := make([]string, 0)
		for _, term := range terms {
			if containsPhrase(corpus, term) {
				hits = append(hits, term)
			}
		}

		relevance := math.Min(float64(len(hits))*hitRelevance, 1)
		reason := "no domain keywords found"
		if len(hits) > 0 {
			reason = fmt.Sprintf("mentions %s", strings.Join(hits, ", "))
		}

		result = append(result, ai.Relevance{
			Name:      repo.Name,
			Relevance: math.Round(relevance*100) / 100,
			Reason:    reason,
		})
	}
	return result, nil
}

func (c *Classifier) skillTerms(skill string) []string {
	terms := []string{tokenPhrase(skill)}
	for _, synonym := range c.synonyms[skill] {
		terms = append(terms, tokenPhrase(synonym))
	}
	return terms
}

// domainTerms falls back to the words of the domain itself for unknown domains.
func (c *Classifier) domainTerms(domain string) []string {
	seen := make(map[string]struct{})
	terms := make([]string, 0)
	add := func(term string) {
		phrase := tokenPhrase(term)
		if phrase == "" {
			return
		}
		if _, ok := seen[phrase]; ok {
			return
		}
		seen[phrase] = struct{}{}
		terms = append(terms, phrase)
	}

	add(domain)
	for _, keyword := range c.domains[domain] {
		add(keyword)
	}
	if _, known := c.domains[domain]; !known {
		for _, word := range tokenize(domain) {
			if len(word) > 2 {
				add(word)
			}
		}
	}
	return terms
}

// tokenize splits text into lowercase tokens. '+' and '#' stay part of a token so that
// c++ and c# survive.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

func tokenPhrase(text string) string {
	return strings.Join(tokenize(text), " ")
}

// phraseCorpus joins tokenized texts with a separator no phrase can span.
func phraseCorpus(texts []string) string {
	var b strings.Builder
	b.WriteString(" ")
	for _, text := range texts {
		if phrase := tokenPhrase(text); phrase != "" {
			b.WriteString(phrase)
			b.WriteString(" | ")
		}
	}
	return b.String()
}

func containsPhrase(corpus, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(corpus, " "+phrase+" ")
}
