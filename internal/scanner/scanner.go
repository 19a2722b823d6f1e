package scanner

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/fjglira/mdscene/internal/domain"
)

// Scanner discovers markdown files below a root.
type Scanner interface {
	Scan(fsys fs.FS, patterns []string, excludes []string) ([]string, error)
}

// FSScanner implements Scanner using fs.WalkDir.
type FSScanner struct {
	Recursive bool
}

// NewScanner creates a new FSScanner.
func NewScanner(recursive bool) *FSScanner {
	return &FSScanner{Recursive: recursive}
}

// Scan walks fsys and returns sorted slash-separated paths matching any of the
// include patterns and none of the exclude patterns.
func (s *FSScanner) Scan(fsys fs.FS, patterns []string, excludes []string) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p == "." {
				return nil
			}
			if !s.Recursive {
				return fs.SkipDir
			}
			for _, exc := range excludes {
				if matchGlob(p, exc) || matchGlob(p+"/", exc) {
					return fs.SkipDir
				}
			}
			return nil
		}

		for _, exc := range excludes {
			if matchGlob(p, exc) {
				return nil
			}
		}
		for _, pattern := range patterns {
			if matchGlob(p, pattern) {
				files = append(files, p)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewError("scan", "", 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

// matchGlob matches a slash path against a glob, supporting a single ** segment.
// Patterns without a slash also match against the base name.
func matchGlob(p, pattern string) bool {
	if prefix, suffix, ok := strings.Cut(pattern, "**"); ok {
		prefix = strings.TrimSuffix(prefix, "/")
		suffix = strings.TrimPrefix(suffix, "/")

		if prefix != "" {
			if p != prefix && !strings.HasPrefix(p, prefix+"/") {
				return false
			}
			p = strings.TrimPrefix(strings.TrimPrefix(p, prefix), "/")
		}
		if suffix == "" {
			return true
		}
		parts := strings.Split(p, "/")
		for i := range parts {
			if ok, _ := path.Match(suffix, strings.Join(parts[i:], "/")); ok {
				return true
			}
		}
		return false
	}

	if !strings.Contains(pattern, "/") {
		if ok, _ := path.Match(pattern, path.Base(p)); ok {
			return true
		}
	}
	ok, _ := path.Match(pattern, p)
	return ok
}
