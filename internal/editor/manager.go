// Package editor applies cursor-driven structural edits to token
// sequences: inserting, deleting and moving markers.
//
// Every operation leaves its input untouched and returns a Result. Stale
// or invalid indices never fail; they yield the input with Changed false
// and publish nothing.
package editor

import (
	"unicode/utf8"

	"tag-engine/internal/pairing"
	"tag-engine/internal/token"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of an edit.
type Result struct {
	Tokens token.Sequence
	// Changed is false when the edit was rejected and Tokens is the input.
	Changed bool
}

func unchanged(seq token.Sequence) Result {
	return Result{Tokens: seq}
}

// Manager performs marker edits and notifies registered observers.
type Manager struct {
	obs observers
}

// NewManager creates a Manager with no observers.
func NewManager() *Manager {
	return &Manager{}
}

// InsertAtCursor inserts a marker at a cursor offset counted in runes of
// text tokens only. A cursor inside a text token splits it; a cursor past
// the end appends.
func (m *Manager) InsertAtCursor(seq token.Sequence, content string, cursor int) Result {
	return m.InsertAllAtCursor(seq, []string{content}, cursor)
}

// InsertAllAtCursor inserts the given markers as one contiguous block,
// in order, at the cursor.
func (m *Manager) InsertAllAtCursor(seq token.Sequence, contents []string, cursor int) Result {
	if len(contents) == 0 || cursor < 0 {
		return unchanged(seq)
	}
	for _, c := range contents {
		if c == "" {
			log.Debug().Int("cursor", cursor).Msg("Ignoring insert of empty marker")
			return unchanged(seq)
		}
	}

	at, split := splicePoint(seq, cursor)

	block := make(token.Sequence, len(contents))
	for i, c := range contents {
		block[i] = token.NewMarker(c)
	}

	out := make(token.Sequence, 0, len(seq)+len(block)+1)
	first := at
	if split > 0 {
		runes := []rune(seq[at].Content)
		out = append(out, seq[:at]...)
		out = append(out, token.NewText(string(runes[:split])))
		out = append(out, block...)
		out = append(out, token.NewText(string(runes[split:])))
		out = append(out, seq[at+1:]...)
		first = at + 1
	} else {
		out = append(out, seq[:at]...)
		out = append(out, block...)
		out = append(out, seq[at:]...)
	}

	for i, c := range contents {
		m.publishInserted(MarkerInserted{Index: first + i, Content: c})
	}
	return Result{Tokens: out, Changed: true}
}

// splicePoint maps a cursor offset to an insertion index. A positive split
// means the text token at index must be cut after split runes. At a token
// boundary the insertion lands outside any run of adjacent markers.
func splicePoint(seq token.Sequence, cursor int) (index, split int) {
	pos := 0
	for i, t := range seq {
		if t.Kind != token.KindText {
			continue
		}
		n := utf8.RuneCountInString(t.Content)
		if cursor > pos+n {
			pos += n
			continue
		}
		switch offset := cursor - pos; {
		case offset == 0:
			for i > 0 && seq[i-1].IsMarker() {
				i--
			}
			return i, 0
		case offset == n:
			i++
			for i < len(seq) && seq[i].IsMarker() {
				i++
			}
			return i, 0
		default:
			return i, offset
		}
	}
	return len(seq), 0
}

// DeleteAt removes the marker at index. Non-markers and invalid indices
// leave seq unchanged.
func (m *Manager) DeleteAt(seq token.Sequence, index int) Result {
	if index < 0 || index >= len(seq) || !seq[index].IsMarker() {
		log.Debug().Int("index", index).Msg("Ignoring delete of non-marker position")
		return unchanged(seq)
	}

	removed := seq[index]
	out := make(token.Sequence, 0, len(seq)-1)
	out = append(out, seq[:index]...)
	out = append(out, seq[index+1:]...)

	m.publishDeleted(MarkerDeleted{Index: index, Content: removed.Content})
	return Result{Tokens: out, Changed: true}
}

// DeletePairAt removes the marker at index together with its pairing
// partner, if it has one. The higher index is deleted first so each
// published index refers to the sequence it was removed from.
func (m *Manager) DeletePairAt(seq token.Sequence, index int) Result {
	partner, ok := pairing.FindPair(seq, index)
	if !ok {
		return m.DeleteAt(seq, index)
	}
	hi, lo := index, partner
	if lo > hi {
		hi, lo = lo, hi
	}
	res := m.DeleteAt(seq, hi)
	return m.DeleteAt(res.Tokens, lo)
}

// MoveTo relocates the marker at from so that its final index is to.
func (m *Manager) MoveTo(seq token.Sequence, from, to int) Result {
	if from == to || from < 0 || to < 0 || from >= len(seq) || to >= len(seq) {
		return unchanged(seq)
	}
	if !seq[from].IsMarker() {
		log.Debug().Int("from", from).Msg("Ignoring move of non-marker token")
		return unchanged(seq)
	}

	moved := seq[from]
	rest := make(token.Sequence, 0, len(seq))
	rest = append(rest, seq[:from]...)
	rest = append(rest, seq[from+1:]...)

	out := make(token.Sequence, 0, len(seq))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)

	m.publishMoved(MarkerMoved{From: from, To: to, Content: moved.Content})
	return Result{Tokens: out, Changed: true}
}
