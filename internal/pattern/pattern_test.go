package pattern

import (
	"errors"
	"testing"

	"tag-engine/internal/token"
)

func findAll(m *Matcher, text string) []string {
	var out []string
	for pos := 0; ; {
		match, ok := m.FindFrom(text, pos)
		if !ok {
			return out
		}
		out = append(out, text[match.Start:match.End])
		pos = match.End
	}
}

func TestDefaultDisplayMatchers(t *testing.T) {
	reg := Default()
	tests := []struct {
		matcher string
		text    string
		want    []string
	}{
		{"bracket", "a {0} b {name} {}", []string{"{0}", "{name}"}},
		{"angle", "<b>x</b><br/>", []string{"<b>", "</b>", "<br/>"}},
		{"printf", "%d %s %1$-5.2f %lld %% 5%", []string{"%d", "%s", "%1$-5.2f", "%lld", "%%"}},
	}

	for _, tt := range tests {
		t.Run(tt.matcher, func(t *testing.T) {
			var m *Matcher
			for _, c := range reg.Display() {
				if c.Name == tt.matcher {
					m = c
				}
			}
			if m == nil {
				t.Fatalf("matcher %s not registered", tt.matcher)
			}
			got := findAll(m, tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("match %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestEditorMatchersCaptureIndex(t *testing.T) {
	text := "x {12> y <12} {3}"
	wantShapes := []token.TagType{token.TagPairedStart, token.TagPairedEnd, token.TagStandalone}
	wantIndex := []int{12, 12, 3}

	for i, m := range Default().Editor() {
		match, ok := m.FindFrom(text, 0)
		if !ok {
			t.Fatalf("%s: expected a match", m.Name)
		}
		if m.Shape != wantShapes[i] {
			t.Errorf("%s: expected shape %v, got %v", m.Name, wantShapes[i], m.Shape)
		}
		if match.Index != wantIndex[i] {
			t.Errorf("%s: expected index %d, got %d", m.Name, wantIndex[i], match.Index)
		}
	}
}

func TestFindFromResumesAtOffset(t *testing.T) {
	m := Default().Display()[0]
	match, ok := m.FindFrom("{1} {2}", 1)
	if !ok || match.Start != 4 || match.End != 7 {
		t.Errorf("expected [4,7), got %+v ok=%v", match, ok)
	}
	if _, ok := m.FindFrom("{1}", 10); ok {
		t.Error("expected no match past the end")
	}
}

func TestCompile(t *testing.T) {
	t.Run("custom display", func(t *testing.T) {
		reg, err := Compile(Set{Display: []string{`\$\{[a-z]+\}`}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reg.Display()) != 1 || len(reg.Editor()) != 3 {
			t.Errorf("unexpected matcher counts %d/%d", len(reg.Display()), len(reg.Editor()))
		}
		if !reg.MayContainMarker("plain") {
			t.Error("custom registries must not use the trigger fast path")
		}
	})

	t.Run("defaults kept", func(t *testing.T) {
		reg, err := Compile(Set{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reg.MayContainMarker("plain text") {
			t.Error("expected fast path with default display patterns")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := Compile(Set{Display: []string{`(`}}); err == nil {
			t.Error("expected compile error")
		}
	})

	t.Run("empty match", func(t *testing.T) {
		_, err := Compile(Set{Display: []string{`x*`}})
		if !errors.Is(err, ErrEmptyMatch) {
			t.Errorf("expected ErrEmptyMatch, got %v", err)
		}
	})

	t.Run("editor without index", func(t *testing.T) {
		_, err := Compile(Set{Standalone: `\[\d+\]`})
		if !errors.Is(err, ErrMissingIndex) {
			t.Errorf("expected ErrMissingIndex, got %v", err)
		}
	})
}
