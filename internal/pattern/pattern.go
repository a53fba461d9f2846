package pattern

import (
	"fmt"
	"regexp"
	"strconv"

	"tag-engine/internal/token"
)

// Family distinguishes stored-text syntax from the indexed editor syntax.
type Family uint8

const (
	// Display patterns recognize markers in stored/source text.
	Display Family = iota
	// Editor patterns recognize {N>, <N} and {N} while a target is edited.
	Editor
)

func (f Family) String() string {
	if f == Editor {
		return "editor"
	}
	return "display"
}

// Matcher is a position-resumable scanner for one marker syntax.
type Matcher struct {
	Name   string
	Family Family
	// Shape is the tag type an editor match stands for. Unused for display matchers.
	Shape token.TagType
	re    *regexp.Regexp
}

// Match is a single hit of a Matcher.
type Match struct {
	Start, End int
	// Index is the 1-based marker number captured by editor matchers, 0 otherwise.
	Index   int
	Matcher *Matcher
}

// Len returns the byte length of the match.
func (m Match) Len() int { return m.End - m.Start }

// FindFrom returns the first match at or after offset.
func (m *Matcher) FindFrom(text string, offset int) (Match, bool) {
	if offset < 0 || offset > len(text) {
		return Match{}, false
	}
	loc := m.re.FindStringSubmatchIndex(text[offset:])
	if loc == nil {
		return Match{}, false
	}
	match := Match{
		Start:   offset + loc[0],
		End:     offset + loc[1],
		Matcher: m,
	}
	if len(loc) >= 4 && loc[2] >= 0 {
		if n, err := strconv.Atoi(text[offset+loc[2] : offset+loc[3]]); err == nil {
			match.Index = n
		}
	}
	return match, true
}

// Pattern returns the source of the underlying expression.
func (m *Matcher) Pattern() string { return m.re.String() }

func newMatcher(name string, family Family, shape token.TagType, expr string) (*Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %s pattern %q: %w", name, expr, err)
	}
	if re.MatchString("") {
		return nil, fmt.Errorf("%s pattern %q: %w", name, expr, ErrEmptyMatch)
	}
	if family == Editor && re.NumSubexp() < 1 {
		return nil, fmt.Errorf("%s pattern %q: %w", name, expr, ErrMissingIndex)
	}
	return &Matcher{Name: name, Family: family, Shape: shape, re: re}, nil
}

func mustMatcher(name string, family Family, shape token.TagType, expr string) *Matcher {
	m, err := newMatcher(name, family, shape, expr)
	if err != nil {
		panic(err)
	}
	return m
}
