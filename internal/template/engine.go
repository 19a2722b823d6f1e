package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/fjglira/mdscene/internal/domain"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// TemplateEngine renders a Manifest into a text report.
type TemplateEngine interface {
	Render(m domain.Manifest) (string, error)
	ListTemplates() []string
}

// DefaultEngine implements TemplateEngine.
type DefaultEngine struct {
	templates   map[string]*template.Template
	defaultName string
}

// NewEngine loads the embedded templates, then any .tmpl files in
// templateDir, which override embedded ones of the same name. A missing or
// empty templateDir leaves only the embedded templates.
func NewEngine(templateDir, defaultTemplate string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		defaultName: defaultTemplate,
	}

	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, domain.NewError("template", "", 0, "failed to open embedded templates", err)
	}
	if err := engine.loadTemplates(sub, "embedded"); err != nil {
		return nil, err
	}

	if templateDir != "" {
		info, err := os.Stat(templateDir)
		switch {
		case err == nil && info.IsDir():
			if err := engine.loadTemplates(os.DirFS(templateDir), templateDir); err != nil {
				return nil, err
			}
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, domain.NewError("template", templateDir, 0, "failed to read template directory", err)
		}
	}

	if _, ok := engine.templates[defaultTemplate]; !ok {
		return nil, domain.NewError("template", templateDir, 0,
			fmt.Sprintf("default template %q not found (available: %s)", defaultTemplate, strings.Join(engine.ListTemplates(), ", ")), nil)
	}

	return engine, nil
}

// loadTemplates parses every .tmpl file at the top level of fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, origin string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return domain.NewError("template", origin, 0, "failed to read template directory", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return domain.NewError("template", filepath.Join(origin, entry.Name()), 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(CustomFuncMap()).Parse(string(content))
		if err != nil {
			return domain.NewError("template", filepath.Join(origin, entry.Name()), 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}

	return nil
}

// Render renders m with the default template.
func (e *DefaultEngine) Render(m domain.Manifest) (string, error) {
	return e.RenderWith(e.defaultName, m)
}

// RenderWith renders m with the named template.
func (e *DefaultEngine) RenderWith(name string, m domain.Manifest) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError("template", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m); err != nil {
		return "", domain.NewError("template", m.Source, 0, "failed to execute template", err)
	}
	return buf.String(), nil
}

// ListTemplates returns the names of all loaded templates, sorted.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
