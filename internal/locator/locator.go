package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fjglira/mdscene/internal/domain"
)

// Locator finds a markdown file by trying a fixed, ordered list of candidate paths.
type Locator struct {
	ScriptDir string   // directory of the running program; empty disables that candidate
	ExtraDirs []string // searched after the home-directory candidate

	getwd   func() (string, error)
	homeDir func() (string, error)
}

// New creates a Locator. An empty scriptDir resolves to the executable's directory.
func New(scriptDir string, extraDirs ...string) *Locator {
	if scriptDir == "" {
		if exe, err := os.Executable(); err == nil {
			scriptDir = filepath.Dir(exe)
		}
	}
	return &Locator{
		ScriptDir: scriptDir,
		ExtraDirs: extraDirs,
		getwd:     os.Getwd,
		homeDir:   os.UserHomeDir,
	}
}

// Candidates returns the de-duplicated search list for path, in order: the
// path as given, its absolute form, the working directory, the script
// directory, the path with ~ expanded, then any extra directories.
func (l *Locator) Candidates(path string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	add(path)
	if abs, err := filepath.Abs(path); err == nil {
		add(abs)
	}
	if !filepath.IsAbs(path) {
		if wd, err := l.getwd(); err == nil {
			add(filepath.Join(wd, path))
		}
		if l.ScriptDir != "" {
			add(filepath.Join(l.ScriptDir, path))
		}
	}
	if expanded, ok := l.expandHome(path); ok {
		add(expanded)
	}
	if !filepath.IsAbs(path) {
		for _, dir := range l.ExtraDirs {
			add(filepath.Join(dir, path))
		}
	}
	return out
}

// Locate returns the resolved path and contents of the first candidate that
// is a readable regular file. It returns an error wrapping domain.ErrNotFound
// when every candidate fails.
func (l *Locator) Locate(path string) (string, []byte, error) {
	candidates := l.Candidates(path)
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		data, err := os.ReadFile(c)
		if err != nil {
			continue
		}
		return c, data, nil
	}

	return "", nil, domain.NewErrorWithSuggestion("locate", path, 0,
		fmt.Sprintf("searched %d location(s): %s", len(candidates), strings.Join(candidates, ", ")),
		"pass an absolute path or run from the directory containing the file",
		domain.ErrNotFound)
}

func (l *Locator) expandHome(path string) (string, bool) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return "", false
	}
	home, err := l.homeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, path[1:]), true
}
