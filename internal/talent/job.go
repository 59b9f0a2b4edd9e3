package talent

import "strings"

// JobRequirement holds the structured needs a candidate is ranked against.
type JobRequirement struct {
	Title          string   `json:"title,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	Domain         string   `json:"domain,omitempty"`
}

// Skills returns required skills with case-insensitive duplicates and blanks removed.
// The first spelling of every skill is kept, in job order.
func (j JobRequirement) Skills() []string {
	seen := make(map[string]struct{}, len(j.RequiredSkills))
	skills := make([]string, 0, len(j.RequiredSkills))
	for _, skill := range j.RequiredSkills {
		n := Normalize(skill)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		skills = append(skills, strings.TrimSpace(skill))
	}
	return skills
}

// HasDomain reports whether the job states a domain.
func (j JobRequirement) HasDomain() bool {
	return strings.TrimSpace(j.Domain) != ""
}

// DomainName returns the trimmed domain.
func (j JobRequirement) DomainName() string {
	return strings.TrimSpace(j.Domain)
}
