// Package tagmap numbers the distinct markers of a source sequence so they
// can be written in the indexed editor syntax and read back.
package tagmap

import "tag-engine/internal/token"

// Mapper assigns each distinct marker content of a source a stable
// 1-based number in first-occurrence order.
type Mapper struct {
	contents []string
	numbers  map[string]int
}

// New builds a Mapper for source.
func New(source token.Sequence) *Mapper {
	m := &Mapper{numbers: make(map[string]int)}
	for _, t := range source {
		if t.Kind != token.KindMarker {
			continue
		}
		if _, seen := m.numbers[t.Content]; seen {
			continue
		}
		m.contents = append(m.contents, t.Content)
		m.numbers[t.Content] = len(m.contents)
	}
	return m
}

// Contents returns the distinct marker contents in first-occurrence order.
func (m *Mapper) Contents() []string {
	out := make([]string, len(m.contents))
	copy(out, m.contents)
	return out
}

// Len returns the number of distinct markers.
func (m *Mapper) Len() int { return len(m.contents) }

// NumberOf returns the 1-based number of content, or 0 if the source has
// no such marker.
func (m *Mapper) NumberOf(content string) int {
	return m.numbers[content]
}

// ContentOf is the inverse of NumberOf.
func (m *Mapper) ContentOf(n int) (string, bool) {
	if n < 1 || n > len(m.contents) {
		return "", false
	}
	return m.contents[n-1], true
}

// UniqueMarkerContents is shorthand for New(source).Contents().
func UniqueMarkerContents(source token.Sequence) []string {
	return New(source).contents
}

// NumberOf is shorthand for New(source).NumberOf(content).
func NumberOf(source token.Sequence, content string) int {
	return New(source).NumberOf(content)
}

// ContentOfNumber is shorthand for New(source).ContentOf(n).
func ContentOfNumber(source token.Sequence, n int) (string, bool) {
	return New(source).ContentOf(n)
}
