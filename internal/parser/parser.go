package parser

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fjglira/mdscene/internal/domain"
)

// Engine names accepted by the registry and by parser.engine in mdscene.yaml.
const (
	EngineRegex      = "regex"
	EngineCommonMark = "commonmark"
)

// Parser turns markdown text into a Document. Implementations are pure:
// no I/O, no logging, and malformed annotations never produce an error.
type Parser interface {
	Parse(content string) domain.Document
	Name() string
}

// ParserRegistry maps engine names to parsers.
type ParserRegistry interface {
	Register(parser Parser)
	ParserFor(name string) (Parser, error)
}

// DefaultRegistry is a thread-safe parser registry with fallback support.
type DefaultRegistry struct {
	mu       sync.RWMutex
	parsers  map[string]Parser
	fallback Parser
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		parsers: make(map[string]Parser),
	}
}

// NewDefaultRegistry returns a registry holding both engines, falling back to regex.
func NewDefaultRegistry() *DefaultRegistry {
	r := NewRegistry()
	fence := NewFenceParser()
	r.Register(fence)
	r.Register(NewGoldmarkParser())
	r.SetFallback(fence)
	return r
}

// Register adds a parser under its engine name.
func (r *DefaultRegistry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[strings.ToLower(p.Name())] = p
}

// SetFallback sets the parser returned for an empty engine name.
func (r *DefaultRegistry) SetFallback(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// ParserFor returns the parser registered under name.
// An empty name selects the fallback parser if one is set.
func (r *DefaultRegistry) ParserFor(name string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(strings.TrimSpace(name))
	if p, ok := r.parsers[name]; ok {
		return p, nil
	}
	if name == "" && r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w for engine %q", domain.ErrNoParser, name)
}

// Names returns the registered engine names, sorted.
func (r *DefaultRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse parses content with the regex fence engine.
func Parse(content string) domain.Document {
	return NewFenceParser().Parse(content)
}
