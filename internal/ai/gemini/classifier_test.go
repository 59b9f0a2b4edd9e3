package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/candidate-ranker/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestClassifierMatchSkills(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{"skills": [
		{"skill": "React", "matched": true, "evidence": "web-ui: React dashboard"},
		{"skill": "Docker", "matched": "no"},
		{"skill": "Haskell", "matched": true}
	]}` + "\n```"}
	classifier := NewClassifier(stub, 0, nil)

	result, err := classifier.MatchSkills(context.Background(), ai.SkillsRequest{
		Skills:  []string{"React", "Docker", "AWS"},
		Signals: []string{"python", "web-ui: React dashboard"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 1 {
		t.Fatalf("expected a single batched call, got %d", stub.calls)
	}
	if !strings.Contains(stub.lastSystem, "decides whether a software developer has a skill") {
		t.Fatalf("expected skills system prompt, got %q", stub.lastSystem)
	}
	if !strings.Contains(stub.lastPrompt, `"web-ui: React dashboard"`) {
		t.Fatalf("expected signals in payload: %s", stub.lastPrompt)
	}

	if !result["react"] {
		t.Fatalf("expected react to be matched: %v", result)
	}
	if result["docker"] {
		t.Fatalf("expected docker not to be matched")
	}
	if _, ok := result["haskell"]; ok {
		t.Fatalf("unrequested skills must be ignored")
	}
	if _, ok := result["aws"]; ok {
		t.Fatalf("unanswered skills must be absent")
	}
}

func TestClassifierMatchSkillsEmptyRequest(t *testing.T) {
	stub := &stubGenerator{}
	classifier := NewClassifier(stub, 0, nil)

	result, err := classifier.MatchSkills(context.Background(), ai.SkillsRequest{})
	if err != nil || len(result) != 0 {
		t.Fatalf("expected empty result, got %v, %v", result, err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no generator call")
	}
}

func TestClassifierPropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: ai.ErrUnavailable}
	classifier := NewClassifier(stub, 0, nil)

	_, err := classifier.MatchSkills(context.Background(), ai.SkillsRequest{Skills: []string{"Go"}})
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClassifierMalformedResponse(t *testing.T) {
	stub := &stubGenerator{response: "I think they know React."}
	classifier := NewClassifier(stub, 0, nil)

	_, err := classifier.MatchSkills(context.Background(), ai.SkillsRequest{Skills: []string{"React"}})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("parse errors must not be reported as unavailability")
	}
}

func TestClassifierRateDomain(t *testing.T) {
	stub := &stubGenerator{response: `{"repositories": [
		{"name": "ledger", "relevance": 0.9, "reason": "double-entry accounting"},
		{"name": "Payments-API", "relevance": "80"},
		{"name": "dotfiles", "relevance": -1}
	]}`}
	classifier := NewClassifier(stub, 0, nil)

	result, err := classifier.RateDomain(context.Background(), ai.DomainRequest{
		Domain: "fintech",
		Repositories: []ai.RepositorySummary{
			{Name: "payments-api"},
			{Name: "ledger"},
			{Name: "dotfiles"},
			{Name: "blog"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 4 {
		t.Fatalf("expected a judgment per repository, got %d", len(result))
	}

	expect := []struct {
		name      string
		relevance float64
	}{
		{"payments-api", 0.8},
		{"ledger", 0.9},
		{"dotfiles", 0},
		{"blog", 0},
	}
	for i, e := range expect {
		if result[i].Name != e.name || result[i].Relevance != e.relevance {
			t.Fatalf("entry %d: expected %s=%v, got %+v", i, e.name, e.relevance, result[i])
		}
	}

	if !strings.Contains(stub.lastPrompt, `"domain": "fintech"`) {
		t.Fatalf("expected domain in payload: %s", stub.lastPrompt)
	}
}
