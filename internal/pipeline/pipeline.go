package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/mdscene/internal/config"
	"github.com/fjglira/mdscene/internal/domain"
	"github.com/fjglira/mdscene/internal/loader"
	"github.com/fjglira/mdscene/internal/manifest"
	"github.com/fjglira/mdscene/internal/parser"
	"github.com/fjglira/mdscene/internal/scanner"
	tmpl "github.com/fjglira/mdscene/internal/template"
)

// Locator resolves a user-supplied path to file contents.
type Locator interface {
	Locate(path string) (string, []byte, error)
}

// Result is one processed markdown file.
type Result struct {
	Source   string
	Document domain.Document
	Manifest domain.Manifest
}

// Pipeline wires locating, scanning, parsing and manifest building together.
type Pipeline struct {
	locator  Locator
	scanner  scanner.Scanner
	registry parser.ParserRegistry
	builder  manifest.Builder
	engine   tmpl.TemplateEngine
	log      *logrus.Logger
}

// New creates a Pipeline with all dependencies.
func New(
	l Locator,
	s scanner.Scanner,
	r parser.ParserRegistry,
	b manifest.Builder,
	e tmpl.TemplateEngine,
	log *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		locator:  l,
		scanner:  s,
		registry: r,
		builder:  b,
		engine:   e,
		log:      log,
	}
}

// Collect processes explicit file arguments followed by every matching file under dir.
func (p *Pipeline) Collect(cfg *config.Config, files []string, dir string) ([]Result, error) {
	prs, err := p.registry.ParserFor(cfg.Parser.Engine)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", "", 0, "cannot select parser engine",
			"set parser.engine to regex or commonmark in mdscene.yaml", err)
	}
	ld := loader.New(prs)
	p.log.Debugf("Using %s parser engine", prs.Name())

	var results []Result
	for _, f := range files {
		path, content, err := p.locator.Locate(f)
		if err != nil {
			return nil, err
		}
		p.log.Debugf("Resolved %s to %s", f, path)

		r, err := p.process(ld, path, content)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if dir != "" {
		p.log.Debugf("Scanning directory: %s", dir)
		paths, err := p.scanner.Scan(os.DirFS(dir), cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			return nil, domain.NewError("scan", dir, 0, "failed to scan directory", err)
		}
		if len(paths) == 0 {
			p.log.Warnf("No markdown files found in %s", dir)
		}
		for _, rel := range paths {
			path := filepath.Join(dir, filepath.FromSlash(rel))
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, domain.NewErrorWithSuggestion("load", path, 0, "failed to read file",
					"check that the file exists and has read permissions", err)
			}
			r, err := p.process(ld, path, content)
			if err != nil {
				return nil, err
			}
			results = append(results, r)
		}
	}

	return results, nil
}

func (p *Pipeline) process(ld *loader.Loader, path string, content []byte) (Result, error) {
	doc, err := ld.Load(path, content)
	if err != nil {
		return Result{}, err
	}

	if len(doc.Blocks) == 0 {
		p.log.Warnf("No code blocks found in %s", path)
	} else {
		p.log.Debugf("Found %d code block(s) in %s", len(doc.Blocks), path)
	}

	m := p.builder.Build(path, doc)
	for _, d := range m.Diagnostics {
		p.log.WithFields(logrus.Fields{"file": path, "line": d.Line, "tag": d.Tag}).Debug(d.Message)
	}

	return Result{Source: path, Document: doc, Manifest: m}, nil
}

// WriteDocuments encodes the parsed documents in the configured format.
func (p *Pipeline) WriteDocuments(cfg *config.Config, results []Result, stdout io.Writer) error {
	docs := make([]domain.Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.Document)
	}
	if cfg.Output.Format == "text" {
		return p.writeReport(cfg, results, stdout)
	}
	data, err := encode(cfg.Output.Format, single(docs))
	if err != nil {
		return err
	}
	return p.write(cfg, data, stdout)
}

// WriteManifests encodes the render manifests in the configured format.
func (p *Pipeline) WriteManifests(cfg *config.Config, results []Result, stdout io.Writer) error {
	if cfg.Output.Format == "text" {
		return p.writeReport(cfg, results, stdout)
	}
	ms := make([]domain.Manifest, 0, len(results))
	for _, r := range results {
		ms = append(ms, r.Manifest)
	}
	data, err := encode(cfg.Output.Format, single(ms))
	if err != nil {
		return err
	}
	return p.write(cfg, data, stdout)
}

// Lint writes one line per diagnostic and returns how many were found.
func (p *Pipeline) Lint(results []Result, w io.Writer) (int, error) {
	count := 0
	for _, r := range results {
		for _, d := range r.Manifest.Diagnostics {
			tag := ""
			if d.Tag != "" {
				tag = "@" + d.Tag + ": "
			}
			if _, err := fmt.Fprintf(w, "%s:%d: %s%s\n", r.Source, d.Line, tag, d.Message); err != nil {
				return count, err
			}
			count++
		}
	}
	if count == 0 {
		p.log.Infof("No problems found in %d file(s)", len(results))
	} else {
		p.log.Warnf("Found %d problem(s) in %d file(s)", count, len(results))
	}
	return count, nil
}

func (p *Pipeline) writeReport(cfg *config.Config, results []Result, stdout io.Writer) error {
	var buf bytes.Buffer
	for i, r := range results {
		out, err := p.engine.Render(r.Manifest)
		if err != nil {
			return err
		}
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(out)
	}
	return p.write(cfg, buf.Bytes(), stdout)
}

// write sends data to the configured output file, or to stdout when none is set.
func (p *Pipeline) write(cfg *config.Config, data []byte, stdout io.Writer) error {
	if cfg.Output.File == "" {
		_, err := stdout.Write(data)
		return err
	}

	if cfg.DryRun {
		p.log.Infof("[DRY-RUN] Would write: %s", cfg.Output.File)
		p.log.Debugf("[DRY-RUN] Content:\n%s", data)
		return nil
	}

	if dir := filepath.Dir(cfg.Output.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.NewErrorWithSuggestion("write", dir, 0, "failed to create output directory",
				"check that the parent directory exists and has write permissions", err)
		}
	}
	p.log.Infof("Writing: %s", cfg.Output.File)
	if err := os.WriteFile(cfg.Output.File, data, 0644); err != nil {
		return domain.NewErrorWithSuggestion("write", cfg.Output.File, 0, "failed to write output file",
			"check disk space and write permissions for the output directory", err)
	}
	return nil
}

// single unwraps one-element slices so a single file encodes as an object.
func single[T any](items []T) any {
	if len(items) == 1 {
		return items[0]
	}
	return items
}

func encode(format string, v any) ([]byte, error) {
	switch format {
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, domain.NewError("write", "", 0, "failed to encode yaml", err)
		}
		if err := enc.Close(); err != nil {
			return nil, domain.NewError("write", "", 0, "failed to encode yaml", err)
		}
		return buf.Bytes(), nil
	case "json", "":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, domain.NewError("write", "", 0, "failed to encode json", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, domain.NewError("write", "", 0, fmt.Sprintf("unsupported output format %q", format), nil)
	}
}
