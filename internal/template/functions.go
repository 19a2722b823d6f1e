package template

import (
	"fmt"
	"strings"
	"text/template"
)

// CustomFuncMap returns the custom template functions available in templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"trimSpace": strings.TrimSpace,
		"join":      strings.Join,
		"indent": func(spaces int, s string) string {
			pad := strings.Repeat(" ", spaces)
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				if line != "" {
					lines[i] = pad + line
				}
			}
			return strings.Join(lines, "\n")
		},
		// deref prints an optional string, or def when it is absent.
		"deref": func(s *string, def string) string {
			if s == nil {
				return def
			}
			return *s
		},
		"lang": func(s *string) string {
			if s == nil || *s == "" {
				return "plain text"
			}
			return *s
		},
		// truncate keeps the first n lines and notes how many were dropped.
		"truncate": func(n int, s string) string {
			lines := strings.Split(s, "\n")
			if len(lines) <= n {
				return s
			}
			return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-n)
		},
	}
}
