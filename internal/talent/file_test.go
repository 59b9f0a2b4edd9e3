package talent

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCandidatesJSON(t *testing.T) {
	path := writeFile(t, "candidates.json", `[
	{
		"github_username": "octo",
		"followers_count": "120",
		"public_repos_count": 42,
		"created_at": "2018-03-01T10:00:00Z",
		"repositories": [{"name": "api", "stars": 12, "language": "Go"}]
	},
	{"github_username": "ghost", "followers_count": null}
]`)

	candidates, err := LoadCandidates(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if candidates.Len() != 2 {
		t.Fatalf("expected 2 candidates, got %d", candidates.Len())
	}

	octo := candidates.Items[0]
	if octo.Followers != 120 || octo.PublicRepos != 42 {
		t.Fatalf("unexpected counters: %+v", octo)
	}
	created, ok := octo.AccountCreated()
	if !ok || !created.Equal(time.Date(2018, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created_at: %v", created)
	}
	if len(octo.Repositories) != 1 || octo.Repositories[0].Language != "Go" {
		t.Fatalf("unexpected repositories: %+v", octo.Repositories)
	}

	ghost := candidates.Items[1]
	if ghost.Followers != 0 {
		t.Fatalf("expected missing followers to be zero")
	}
	if _, ok := ghost.AccountCreated(); ok {
		t.Fatalf("expected unknown creation date")
	}
}

func TestLoadCandidatesYAMLObject(t *testing.T) {
	path := writeFile(t, "candidates.yaml", `
candidates:
  - github_username: octo
    created_at: 2020-01-02
    skills: [Go, SQL]
`)

	candidates, err := LoadCandidates(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates.Len() != 1 {
		t.Fatalf("expected 1 candidate, got %d", candidates.Len())
	}
	created, ok := candidates.Items[0].AccountCreated()
	if !ok || created.Year() != 2020 {
		t.Fatalf("unexpected created_at: %v", created)
	}
}

func TestLoadCandidatesEmptyFile(t *testing.T) {
	path := writeFile(t, "candidates.json", "  \n")

	candidates, err := LoadCandidates(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates.Items == nil || candidates.Len() != 0 {
		t.Fatalf("expected empty non-nil list")
	}
}

func TestLoadCandidatesRejectsBadTime(t *testing.T) {
	path := writeFile(t, "candidates.json", `[{"github_username": "x", "created_at": "yesterday"}]`)

	if _, err := LoadCandidates(path); err == nil {
		t.Fatalf("expected error for unparsable created_at")
	}
}

func TestLoadJob(t *testing.T) {
	path := writeFile(t, "job.yaml", `
title: Backend engineer
required_skills: [Python, SQL]
domain: fintech
`)

	job, err := LoadJob(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Title != "Backend engineer" || len(job.RequiredSkills) != 2 || job.DomainName() != "fintech" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestExcludedFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")

	excluded, err := GetExcludedCandidatesFromFile(path)
	if err != nil {
		t.Fatalf("missing file should be empty, got %v", err)
	}

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	excluded.Append(NewExcluded([]string{"alice", "bob"}, "contacted", at))
	excluded.Append(NewExcluded([]string{"Alice", "carol"}, "", at))

	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	loaded, err := GetExcludedCandidatesFromFile(path)
	if err != nil {
		t.Fatalf("read exclude file: %v", err)
	}

	names := loaded.Usernames()
	if len(names) != 3 || names[0] != "alice" || names[2] != "carol" {
		t.Fatalf("unexpected usernames: %v", names)
	}
}
