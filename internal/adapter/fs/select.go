package fs

import (
	"fmt"
	"path/filepath"

	"textpatch/internal/domain"
	"textpatch/internal/port"
)

// SelectTargets builds the ordered target list: explicit paths first, kept
// even when they do not exist, then files matched by the walker. Relative
// explicit paths resolve against root but keep their given spelling as the
// target name. Duplicates keep their first position.
func SelectTargets(root string, explicit []string, walker port.FileWalker) ([]domain.Target, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %w", root, err)
	}

	seen := make(map[string]bool)
	var targets []domain.Target

	add := func(name, path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		targets = append(targets, domain.Target{Name: name, Path: path})
	}

	for _, name := range explicit {
		if name == "" {
			continue
		}
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		add(name, filepath.Clean(path))
	}

	if walker != nil {
		files, err := walker.Walk(root)
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
		for _, f := range files {
			p := filepath.Clean(f.Path)
			add(p, p)
		}
	}

	return targets, nil
}
