package tagmap

import (
	"testing"

	"tag-engine/internal/token"
)

func TestMapperNumbering(t *testing.T) {
	source := token.Sequence{
		token.NewMarker("<b>"),
		token.NewText("Hi "),
		token.NewMarker("{0}"),
		token.NewMarker("</b>"),
		token.NewMarker("{0}"),
		token.NewText("<b>"),
	}
	m := New(source)

	want := []string{"<b>", "{0}", "</b>"}
	got := m.Contents()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
		if n := m.NumberOf(want[i]); n != i+1 {
			t.Errorf("NumberOf(%q): expected %d, got %d", want[i], i+1, n)
		}
		if c, ok := m.ContentOf(i + 1); !ok || c != want[i] {
			t.Errorf("ContentOf(%d): expected %q, got %q", i+1, want[i], c)
		}
	}

	if m.NumberOf("%d") != 0 {
		t.Error("unknown content should map to 0")
	}
	if _, ok := m.ContentOf(0); ok {
		t.Error("0 is not a valid marker number")
	}
	if _, ok := m.ContentOf(4); ok {
		t.Error("4 is past the last marker number")
	}
}

func TestShorthands(t *testing.T) {
	source := token.Sequence{token.NewMarker("%s"), token.NewMarker("%d")}
	if NumberOf(source, "%d") != 2 {
		t.Errorf("expected %%d to be marker 2")
	}
	if c, ok := ContentOfNumber(source, 1); !ok || c != "%s" {
		t.Errorf("expected %%s, got %q", c)
	}
	if len(UniqueMarkerContents(token.Sequence{token.NewText("x")})) != 0 {
		t.Error("expected no markers")
	}
}
