package navigator

import (
	"testing"

	"tag-engine/internal/token"
)

func sample() token.Sequence {
	return token.Sequence{
		token.NewMarker("<b>"),
		token.NewText("a"),
		token.NewMarker("{0}"),
		token.NewText("b"),
		token.NewMarker("</b>"),
	}
}

func TestMarkerIndices(t *testing.T) {
	got := MarkerIndices(sample())
	if len(got) != 3 || got[0] != 0 || got[1] != 2 || got[2] != 4 {
		t.Errorf("expected [0 2 4], got %v", got)
	}
}

func TestNextAndPrevious(t *testing.T) {
	seq := sample()
	tests := []struct {
		name string
		fn   func(int, token.Sequence) int
		pos  int
		want int
	}{
		{"next from start", NextFrom, 0, 2},
		{"next from text", NextFrom, 1, 2},
		{"next wraps", NextFrom, 4, 0},
		{"next before first", NextFrom, -1, 0},
		{"previous from end", PreviousFrom, 4, 2},
		{"previous from text", PreviousFrom, 3, 2},
		{"previous wraps", PreviousFrom, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.pos, seq); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNoMarkersKeepsPosition(t *testing.T) {
	seq := token.Sequence{token.NewText("plain")}
	if NextFrom(3, seq) != 3 || PreviousFrom(3, seq) != 3 {
		t.Error("expected position to stay when there are no markers")
	}
}

func TestPartnerOf(t *testing.T) {
	seq := sample()
	if got := PartnerOf(0, seq); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := PartnerOf(4, seq); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := PartnerOf(2, seq); got != 2 {
		t.Errorf("expected standalone to stay at 2, got %d", got)
	}
}
