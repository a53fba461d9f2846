// Package codec converts between raw text and token sequences in both
// the display syntax of stored text and the indexed editor syntax.
package codec

import (
	"strconv"
	"strings"

	"tag-engine/internal/pattern"
	"tag-engine/internal/tagmap"
	"tag-engine/internal/token"

	"github.com/rs/zerolog/log"
)

// Codec parses and serializes token sequences with one pattern registry.
type Codec struct {
	registry *pattern.Registry
}

// New creates a Codec. A nil registry selects pattern.Default().
func New(reg *pattern.Registry) *Codec {
	if reg == nil {
		reg = pattern.Default()
	}
	return &Codec{registry: reg}
}

var defaultCodec = New(nil)

// Parse tokenizes text with the default registry.
func Parse(text string) token.Sequence { return defaultCodec.Parse(text) }

// ParseEditorText tokenizes editor text with the default registry.
func ParseEditorText(text string, source token.Sequence) token.Sequence {
	return defaultCodec.ParseEditorText(text, source)
}

// SerializeToEditorSyntax renders seq in editor syntax with the default registry.
func SerializeToEditorSyntax(seq, source token.Sequence) string {
	return defaultCodec.SerializeToEditorSyntax(seq, source)
}

// Parse splits text into text and marker tokens. Concatenating the
// contents of the result always yields text again.
func (c *Codec) Parse(text string) token.Sequence {
	if !c.registry.MayContainMarker(text) {
		return token.Sequence{token.NewText(text)}
	}
	return scan(text, nil, c.registry.Display(), func(m pattern.Match, raw string) token.Token {
		return token.NewMarker(raw)
	})
}

// ParseEditorText tokenizes text typed in editor syntax. Indexed markers
// are resolved to the original content of the numbered source marker;
// numbers without a source marker stay literal text.
func (c *Codec) ParseEditorText(text string, source token.Sequence) token.Sequence {
	mapper := tagmap.New(source)
	return scan(text, c.registry.Editor(), c.registry.Display(), func(m pattern.Match, raw string) token.Token {
		if m.Matcher.Family != pattern.Editor {
			return token.NewMarker(raw)
		}
		content, ok := mapper.ContentOf(m.Index)
		if !ok {
			log.Debug().Str("marker", raw).Int("index", m.Index).Msg("No source marker for editor index, keeping literal text")
			return token.NewText(raw)
		}
		return token.NewMarker(content)
	})
}

// SerializeToEditorSyntax writes every marker of seq as {N>, <N} or {N}
// numbered against source. Markers the source lacks get numbers after the
// last source number, stable within one call.
func (c *Codec) SerializeToEditorSyntax(seq, source token.Sequence) string {
	mapper := tagmap.New(source)
	fallback := make(map[string]int)
	next := mapper.Len() + 1

	var sb strings.Builder
	for _, t := range seq {
		if t.Kind != token.KindMarker {
			sb.WriteString(t.Content)
			continue
		}
		n := mapper.NumberOf(t.Content)
		if n == 0 {
			var seen bool
			if n, seen = fallback[t.Content]; !seen {
				n = next
				fallback[t.Content] = n
				next++
			}
		}
		sb.WriteString(editorMarker(t.TagType(), n))
	}
	return sb.String()
}

func editorMarker(tt token.TagType, n int) string {
	num := strconv.Itoa(n)
	switch tt {
	case token.TagPairedStart:
		return "{" + num + ">"
	case token.TagPairedEnd:
		return "<" + num + "}"
	default:
		return "{" + num + "}"
	}
}

type emitFunc func(m pattern.Match, raw string) token.Token

// scan repeatedly picks the earliest match. Display matches may not
// overlap the next editor match, so stray "<" or "{" in the text cannot
// swallow an editor marker. At equal offsets longer matches win, then
// registry order.
func scan(text string, editor, display []*pattern.Matcher, emit emitFunc) token.Sequence {
	var seq token.Sequence
	pos := 0
	for pos < len(text) {
		best, found := earliest(text, pos, editor, display)
		if !found {
			break
		}
		if best.Start > pos {
			seq = appendToken(seq, token.NewText(text[pos:best.Start]))
		}
		seq = appendToken(seq, emit(best, text[best.Start:best.End]))
		pos = best.End
	}
	if pos < len(text) || len(seq) == 0 {
		seq = appendToken(seq, token.NewText(text[pos:]))
	}
	return seq
}

// appendToken joins consecutive text runs, which only arise when an editor
// marker degrades to text.
func appendToken(seq token.Sequence, t token.Token) token.Sequence {
	if t.Kind == token.KindText && len(seq) > 0 && seq[len(seq)-1].Kind == token.KindText {
		seq[len(seq)-1] = token.NewText(seq[len(seq)-1].Content + t.Content)
		return seq
	}
	return append(seq, t)
}

// earliest returns the next editor match, unless a display match ends at
// or before its start.
func earliest(text string, pos int, editor, display []*pattern.Matcher) (pattern.Match, bool) {
	best, found := first(text, pos, editor)
	limit := len(text)
	if found {
		limit = best.Start
	}
	if d, ok := first(text[:limit], pos, display); ok {
		return d, true
	}
	return best, found
}

func first(text string, pos int, matchers []*pattern.Matcher) (pattern.Match, bool) {
	var best pattern.Match
	found := false
	for _, m := range matchers {
		match, ok := m.FindFrom(text, pos)
		if !ok {
			continue
		}
		if !found || beats(match, best) {
			best = match
			found = true
		}
	}
	return best, found
}

func beats(a, b pattern.Match) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.Len() > b.Len()
}
