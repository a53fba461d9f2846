// Package pairing resolves which opening and closing markers belong
// together, accounting for nested tags with the same name.
package pairing

import "tag-engine/internal/token"

// FindPair returns the index of the partner of the marker at index. It
// reports false for standalone markers, non-markers, invalid indices and
// unmatched tags. Contents are compared exactly, so <B> never closes with </b>.
func FindPair(seq token.Sequence, index int) (int, bool) {
	if index < 0 || index >= len(seq) || !seq[index].IsMarker() {
		return 0, false
	}

	t := seq[index]
	switch t.TagType() {
	case token.TagPairedStart:
		closing := "</" + token.TagName(t.Content) + ">"
		return scan(seq, index, +1, t.Content, closing)
	case token.TagPairedEnd:
		opening := "<" + token.TagName(t.Content) + ">"
		return scan(seq, index, -1, t.Content, opening)
	default:
		return 0, false
	}
}

// scan walks from index in direction step. Each repeat of self opens a
// nesting level that the next partner closes.
func scan(seq token.Sequence, index, step int, self, partner string) (int, bool) {
	depth := 0
	for i := index + step; i >= 0 && i < len(seq); i += step {
		if !seq[i].IsMarker() {
			continue
		}
		switch seq[i].Content {
		case self:
			depth++
		case partner:
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return 0, false
}

// Pairs returns every resolved start->end pair in seq keyed by start index.
func Pairs(seq token.Sequence) map[int]int {
	out := make(map[int]int)
	for i, t := range seq {
		if t.TagType() != token.TagPairedStart {
			continue
		}
		if j, ok := FindPair(seq, i); ok {
			out[i] = j
		}
	}
	return out
}
