// Package navigator moves a cursor between marker positions.
package navigator

import (
	"tag-engine/internal/pairing"
	"tag-engine/internal/token"
)

// MarkerIndices returns the indices of all marker tokens, in order.
func MarkerIndices(seq token.Sequence) []int {
	var out []int
	for i, t := range seq {
		if t.IsMarker() {
			out = append(out, i)
		}
	}
	return out
}

// NextFrom returns the first marker index after pos, wrapping to the
// first marker. With no markers it returns pos.
func NextFrom(pos int, seq token.Sequence) int {
	indices := MarkerIndices(seq)
	if len(indices) == 0 {
		return pos
	}
	for _, i := range indices {
		if i > pos {
			return i
		}
	}
	return indices[0]
}

// PreviousFrom returns the last marker index before pos, wrapping to the
// last marker. With no markers it returns pos.
func PreviousFrom(pos int, seq token.Sequence) int {
	indices := MarkerIndices(seq)
	if len(indices) == 0 {
		return pos
	}
	for k := len(indices) - 1; k >= 0; k-- {
		if indices[k] < pos {
			return indices[k]
		}
	}
	return indices[len(indices)-1]
}

// PartnerOf returns the index of the pairing partner of the marker at pos,
// or pos when it has none.
func PartnerOf(pos int, seq token.Sequence) int {
	if j, ok := pairing.FindPair(seq, pos); ok {
		return j
	}
	return pos
}
