package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Sequence is an ordered list of tokens for one segment's source or target.
// Operations never mutate a Sequence in place.
type Sequence []Token

// Text concatenates the content of every token.
func (s Sequence) Text() string {
	var sb strings.Builder
	for _, t := range s {
		sb.WriteString(t.Content)
	}
	return sb.String()
}

// MarkerContents returns the content of every marker token, in order.
func (s Sequence) MarkerContents() []string {
	var out []string
	for _, t := range s {
		if t.Kind == KindMarker {
			out = append(out, t.Content)
		}
	}
	return out
}

// Clone returns a shallow copy. Metadata pointers are shared because no
// operation writes through them.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether a and b have the same kinds and contents.
func Equal(a, b Sequence) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}

// Merged returns a copy of s with adjacent text tokens joined.
func (s Sequence) Merged() Sequence {
	out := make(Sequence, 0, len(s))
	for _, t := range s {
		if t.Kind == KindText && len(out) > 0 && out[len(out)-1].Kind == KindText {
			out[len(out)-1] = NewText(out[len(out)-1].Content + t.Content)
			continue
		}
		out = append(out, t)
	}
	return out
}

// String renders s for debugging, e.g. [text:"Hi" marker:"<b>"].
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = fmt.Sprintf("%s:%q", t.Kind, t.Content)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Encode returns the persisted wire shape of s.
func Encode(s Sequence) ([]byte, error) {
	wire := make([]Token, len(s))
	for i, t := range s {
		wire[i] = Token{Kind: t.Kind, Content: t.Content}
		if id := t.ID(); id != t.Content {
			wire[i].Metadata = &Metadata{ID: id}
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wire); err != nil {
		return nil, fmt.Errorf("encode tokens: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses the wire shape produced by Encode and rebuilds metadata
// that is not persisted.
func Decode(data []byte) (Sequence, error) {
	var wire []Token
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	out := make(Sequence, len(wire))
	for i, t := range wire {
		id := t.Content
		if t.Metadata != nil && t.Metadata.ID != "" {
			id = t.Metadata.ID
		}
		switch t.Kind {
		case KindMarker:
			m := NewMarker(t.Content)
			m.Metadata.ID = id
			out[i] = m
		default:
			out[i] = Token{Kind: t.Kind, Content: t.Content}
			if id != t.Content {
				out[i].Metadata = &Metadata{ID: id}
			}
		}
	}
	return out, nil
}
