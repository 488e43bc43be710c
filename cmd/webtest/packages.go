package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// resolvePackages turns positional path patterns into `go test` package
// arguments. Without patterns every package is selected. Patterns are
// globs matched against the workspace-relative directories that contain
// test files, so `webtest e2e` and `webtest 'pkg/*'` both work.
func resolvePackages(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return []string{"./..."}, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(strings.TrimSuffix(pattern, "/"), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid path pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}

	dirs, err := testDirectories(root)
	if err != nil {
		return nil, err
	}

	var packages []string
	for _, dir := range dirs {
		for _, g := range globs {
			if g.Match(dir) {
				packages = append(packages, "./"+dir)
				break
			}
		}
	}
	if len(packages) == 0 {
		return nil, fmt.Errorf("no test packages match %v", patterns)
	}

	sort.Strings(packages)
	return packages, nil
}

// testDirectories lists workspace-relative directories containing Go test
// files, skipping hidden and vendor trees.
func testDirectories(root string) ([]string, error) {
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), "_test.go") {
			rel, relErr := filepath.Rel(root, filepath.Dir(path))
			if relErr != nil {
				return relErr
			}
			seen[filepath.ToSlash(rel)] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for test packages: %w", err)
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}
