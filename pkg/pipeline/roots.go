package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ExpandRoots expands shell glob patterns in root arguments into a sorted,
// deduplicated list. A pattern without matches is kept as-is so that the
// walker reports the missing path.
func ExpandRoots(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var roots []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			roots = append(roots, p)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(roots)
	return roots, nil
}
