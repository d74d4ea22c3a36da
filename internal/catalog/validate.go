package catalog

import (
	"fmt"
	"path"
	"strings"
)

// Validate checks the tree for problems that would make lessons ambiguous
// or unloadable. knownKind decides whether a lesson's preferred kind is
// acceptable; when nil, kinds are not checked. All problems are reported
// in one error.
func (c Catalog) Validate(knownKind func(string) bool) error {
	var errs []string

	if len(c.Subjects) == 0 {
		errs = append(errs, "catalog has no subjects")
	}

	seen := make(map[string]bool)
	for si, s := range c.Subjects {
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Sprintf("subject %d has an empty name", si))
		}
		for ci, ch := range s.Chapters {
			if strings.TrimSpace(ch.Name) == "" {
				errs = append(errs, fmt.Sprintf("subject %q chapter %d has an empty name", s.Name, ci))
			}
			for _, l := range ch.Lessons {
				if strings.TrimSpace(l.File) == "" {
					errs = append(errs, fmt.Sprintf("subject %q chapter %q has a lesson without a file", s.Name, ch.Name))
					continue
				}
				if strings.Contains(l.File, "/") || l.File == ".." {
					errs = append(errs, fmt.Sprintf("lesson file %q must be a plain file name", l.File))
				}
				p := path.Join(s.Name, ch.Name, l.File)
				if seen[p] {
					errs = append(errs, fmt.Sprintf("duplicate lesson path: %q", p))
				}
				seen[p] = true
				if l.Kind != "" && knownKind != nil && !knownKind(l.Kind) {
					errs = append(errs, fmt.Sprintf("lesson %q has unknown kind %q", p, l.Kind))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
