package pattern

import (
	"fmt"
	"strings"

	"tag-engine/internal/token"
)

// Default expressions for marker syntaxes found in stored text.
const (
	BracketExpr = `\{[^{}]+\}`
	AngleExpr   = `<[^<>]+>`
	PrintfExpr  = `%(?:\d+\$)?[-#+ 0]*\d*(?:\.\d+)?(?:hh|h|ll|l|L|q|j|z|t)?[diuoxXfFeEgGaAcspn]|%%`

	PairedStartExpr = `\{(\d+)>`
	PairedEndExpr   = `<(\d+)\}`
	StandaloneExpr  = `\{(\d+)\}`
)

// defaultTriggers are the characters every default display pattern starts with.
const defaultTriggers = "<{%"

// Set describes a custom pattern set. Empty editor entries fall back to
// the default editor patterns; an empty Display list keeps the defaults.
type Set struct {
	Display     []string `yaml:"display"`
	PairedStart string   `yaml:"paired_start"`
	PairedEnd   string   `yaml:"paired_end"`
	Standalone  string   `yaml:"standalone"`
}

// Registry holds the ordered display and editor matchers.
type Registry struct {
	display  []*Matcher
	editor   []*Matcher
	triggers string
}

var defaultRegistry = &Registry{
	display: []*Matcher{
		mustMatcher("bracket", Display, token.TagNone, BracketExpr),
		mustMatcher("angle", Display, token.TagNone, AngleExpr),
		mustMatcher("printf", Display, token.TagNone, PrintfExpr),
	},
	editor: []*Matcher{
		mustMatcher("paired-start", Editor, token.TagPairedStart, PairedStartExpr),
		mustMatcher("paired-end", Editor, token.TagPairedEnd, PairedEndExpr),
		mustMatcher("standalone", Editor, token.TagStandalone, StandaloneExpr),
	},
	triggers: defaultTriggers,
}

// Default returns the shared default registry. It is never mutated.
func Default() *Registry { return defaultRegistry }

// Compile builds a registry from a custom set. Malformed expressions are
// returned as errors.
func Compile(set Set) (*Registry, error) {
	reg := &Registry{}

	if len(set.Display) == 0 {
		reg.display = defaultRegistry.display
		reg.triggers = defaultTriggers
	}
	for i, expr := range set.Display {
		m, err := newMatcher(fmt.Sprintf("display-%d", i+1), Display, token.TagNone, expr)
		if err != nil {
			return nil, err
		}
		reg.display = append(reg.display, m)
	}

	editor := []struct {
		name  string
		shape token.TagType
		expr  string
		def   *Matcher
	}{
		{"paired-start", token.TagPairedStart, set.PairedStart, defaultRegistry.editor[0]},
		{"paired-end", token.TagPairedEnd, set.PairedEnd, defaultRegistry.editor[1]},
		{"standalone", token.TagStandalone, set.Standalone, defaultRegistry.editor[2]},
	}
	for _, e := range editor {
		if e.expr == "" {
			reg.editor = append(reg.editor, e.def)
			continue
		}
		m, err := newMatcher(e.name, Editor, e.shape, e.expr)
		if err != nil {
			return nil, err
		}
		reg.editor = append(reg.editor, m)
	}

	return reg, nil
}

// Display returns the display-syntax matchers in priority order.
func (r *Registry) Display() []*Matcher { return r.display }

// Editor returns the editor-syntax matchers in priority order.
func (r *Registry) Editor() []*Matcher { return r.editor }

// MayContainMarker reports whether text could hold a display marker. It
// is conservative for registries without known trigger characters.
func (r *Registry) MayContainMarker(text string) bool {
	if r.triggers == "" {
		return true
	}
	return strings.ContainsAny(text, r.triggers)
}
