package annotation

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/fjglira/mdscene/internal/domain"
)

// Recognized tag names.
const (
	TagStep      = "step"
	TagHighlight = "highlight"
	TagTransform = "transform"
	TagIsolate   = "isolate"
	TagWait      = "wait"
	TagWrite     = "write"
	TagFontSize  = "fontsize"
)

var knownTags = map[string]bool{
	TagStep:      true,
	TagHighlight: true,
	TagTransform: true,
	TagIsolate:   true,
	TagWait:      true,
	TagWrite:     true,
	TagFontSize:  true,
}

// Issue is a recoverable problem in an annotation string.
type Issue struct {
	Offset  int // byte offset of the '@' in the annotation string
	Tag     string
	Message string
}

// token is a single @tag or @tag[payload] occurrence.
type token struct {
	offset     int
	name       string
	digits     string // only for @stepN
	payload    string
	hasPayload bool
}

// Parse scans an annotation string in one pass and returns the tags it found.
// Parsing never fails: malformed tokens are skipped and reported as issues.
// When a tag occurs more than once, the first occurrence wins.
func Parse(s string) (domain.Annotations, []Issue) {
	var (
		ann    domain.Annotations
		issues []Issue
		// bracketed and bare @transform are tracked separately
		taken = make(map[string]bool)
	)

	for _, tok := range scan(s, &issues) {
		if !knownTags[tok.name] {
			issues = append(issues, Issue{Offset: tok.offset, Tag: tok.name, Message: fmt.Sprintf("unknown annotation @%s ignored", tok.name)})
			continue
		}

		key := tok.name
		if tok.name == TagTransform && !tok.hasPayload {
			key = TagTransform + "!"
		}
		if taken[key] {
			issues = append(issues, Issue{Offset: tok.offset, Tag: tok.name, Message: fmt.Sprintf("duplicate @%s ignored, first occurrence wins", tok.name)})
			continue
		}

		if ok := apply(&ann, tok, &issues); ok {
			taken[key] = true
			if !slices.Contains(ann.Seen, tok.name) {
				ann.Seen = append(ann.Seen, tok.name)
			}
		}
	}

	return ann, issues
}

// Known reports whether name is a recognized annotation tag.
func Known(name string) bool {
	return knownTags[name]
}

// scan splits s into tokens. Text outside tokens is ignored.
func scan(s string, issues *[]Issue) []token {
	var tokens []token
	i := 0
	for i < len(s) {
		if s[i] != '@' {
			i++
			continue
		}
		start := i
		j := i + 1
		for j < len(s) && isLetter(s[j]) {
			j++
		}
		if j == i+1 {
			i = j
			continue
		}
		tok := token{offset: start, name: s[i+1 : j]}

		if tok.name == TagStep {
			k := j
			for k < len(s) && s[k] >= '0' && s[k] <= '9' {
				k++
			}
			tok.digits = s[j:k]
			j = k
		}

		if j < len(s) && s[j] == '[' {
			end := strings.IndexByte(s[j+1:], ']')
			if end < 0 {
				*issues = append(*issues, Issue{Offset: start, Tag: tok.name, Message: fmt.Sprintf("unterminated bracket after @%s", tok.name)})
				i = j + 1
				continue
			}
			tok.payload = s[j+1 : j+1+end]
			tok.hasPayload = true
			j = j + 1 + end + 1
		}

		tokens = append(tokens, tok)
		i = j
	}
	return tokens
}

// apply stores tok into ann. It returns false when the token was rejected.
func apply(ann *domain.Annotations, tok token, issues *[]Issue) bool {
	reject := func(format string, args ...any) bool {
		*issues = append(*issues, Issue{Offset: tok.offset, Tag: tok.name, Message: fmt.Sprintf(format, args...)})
		return false
	}

	switch tok.name {
	case TagStep:
		if tok.digits == "" {
			return reject("@step needs a number, e.g. @step2")
		}
		n, err := strconv.Atoi(tok.digits)
		if err != nil {
			return reject("@step%s is out of range", tok.digits)
		}
		ann.Step = &n

	case TagHighlight:
		if !tok.hasPayload {
			return reject("@highlight needs a bracket list, e.g. @highlight[a,b]")
		}
		ann.Highlights = strings.Split(tok.payload, ",")

	case TagIsolate:
		if !tok.hasPayload {
			return reject("@isolate needs a bracket list, e.g. @isolate[a,b]")
		}
		ann.Isolate = strings.Split(tok.payload, ",")

	case TagTransform:
		if !tok.hasPayload {
			ann.Transform = true
			return true
		}
		ann.Transforms = make(map[string]string)
		for _, entry := range strings.Split(tok.payload, ",") {
			parts := strings.SplitN(entry, "->", 2)
			if len(parts) < 2 {
				*issues = append(*issues, Issue{Offset: tok.offset, Tag: tok.name, Message: fmt.Sprintf("transform entry %q has no '->', skipped", entry)})
				continue
			}
			ann.Transforms[parts[0]] = parts[1]
		}

	case TagWait:
		if !tok.hasPayload {
			return reject("@wait needs seconds, e.g. @wait[2.5]")
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(tok.payload), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return reject("@wait[%s] is not a valid duration in seconds", tok.payload)
		}
		ann.Wait = &f

	case TagFontSize:
		if !tok.hasPayload {
			return reject("@fontsize needs a size, e.g. @fontsize[32]")
		}
		n, err := strconv.Atoi(strings.TrimSpace(tok.payload))
		if err != nil || n <= 0 {
			return reject("@fontsize[%s] is not a positive integer", tok.payload)
		}
		ann.FontSize = &n

	case TagWrite:
		if tok.hasPayload {
			*issues = append(*issues, Issue{Offset: tok.offset, Tag: tok.name, Message: "@write takes no payload, brackets ignored"})
		}
		ann.Write = true
	}

	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
