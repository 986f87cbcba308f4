package catalog

import (
	"fmt"
	"strings"
)

// validateSkills performs all structural checks on the given skill set.
// Returns a combined error describing all problems found, or nil if valid.
func validateSkills(skills []Skill) error {
	var errs []string

	seen := make(map[string]bool, len(skills))
	for i, s := range skills {
		if s.Key == "" {
			errs = append(errs, fmt.Sprintf("skill #%d has no key", i))
			continue
		}
		if seen[s.Key] {
			errs = append(errs, fmt.Sprintf("duplicate skill key: %q", s.Key))
		}
		seen[s.Key] = true

		if s.Name == "" {
			errs = append(errs, fmt.Sprintf("skill %q has no name", s.Key))
		}
		for j, st := range s.Roadmap.Steps {
			if st.Title == "" {
				errs = append(errs, fmt.Sprintf("skill %q step %d has no title", s.Key, j))
			}
			for k, item := range st.Checklist {
				if strings.TrimSpace(item) == "" {
					errs = append(errs, fmt.Sprintf("skill %q step %d item %d is empty", s.Key, j, k))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
