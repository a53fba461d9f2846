package codec

import (
	"regexp"
	"strconv"

	"tag-engine/internal/pairing"
	"tag-engine/internal/token"
)

var numberedPlaceholder = regexp.MustCompile(`^\{(\d+)\}$`)

// DisplayGlyph returns the compact label shown for the marker at the
// zero-based index: [N for an opening tag, N] for a closing tag and ⟨N⟩
// otherwise. Numbered placeholders such as {3} keep their own numeral.
func DisplayGlyph(content string, index int) string {
	n := strconv.Itoa(index + 1)
	switch token.Classify(content) {
	case token.TagPairedStart:
		return "[" + n
	case token.TagPairedEnd:
		return n + "]"
	}
	if m := numberedPlaceholder.FindStringSubmatch(content); m != nil {
		n = m[1]
	}
	return "⟨" + n + "⟩"
}

// Glyphs returns the display glyph of every marker in seq, numbered by
// marker position.
func Glyphs(seq token.Sequence) []string {
	var out []string
	for _, t := range seq {
		if t.IsMarker() {
			out = append(out, DisplayGlyph(t.Content, len(out)))
		}
	}
	return out
}

// Annotate returns a copy of seq whose markers carry their tag type and
// resolved partner index. Validation state is preserved.
func Annotate(seq token.Sequence) token.Sequence {
	out := seq.Clone()
	for i, t := range out {
		if !t.IsMarker() {
			continue
		}
		md := t.Meta()
		md.TagType = t.TagType()
		md.Partner, md.HasPartner = pairing.FindPair(seq, i)
		out[i] = t.WithMetadata(md)
	}
	return out
}
