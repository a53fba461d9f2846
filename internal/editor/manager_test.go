package editor

import (
	"testing"

	"tag-engine/internal/token"
)

func seqOf(parts ...string) token.Sequence {
	seq := make(token.Sequence, len(parts))
	for i, p := range parts {
		if len(p) > 0 && (p[0] == '<' || p[0] == '{' || p[0] == '%') {
			seq[i] = token.NewMarker(p)
		} else {
			seq[i] = token.NewText(p)
		}
	}
	return seq
}

func expectSeq(t *testing.T, got token.Sequence, want ...string) {
	t.Helper()
	if !token.Equal(got, seqOf(want...)) {
		t.Errorf("expected %v, got %v", seqOf(want...), got)
	}
}

func TestInsertAtCursorSplitsText(t *testing.T) {
	m := NewManager()
	var events []MarkerInserted
	m.OnMarkerInserted(func(ev MarkerInserted) { events = append(events, ev) })

	in := seqOf("Hello world")
	res := m.InsertAtCursor(in, "<bold>", 6)

	if !res.Changed {
		t.Fatal("expected a change")
	}
	expectSeq(t, res.Tokens, "Hello ", "<bold>", "world")
	expectSeq(t, in, "Hello world")
	if len(events) != 1 || events[0].Index != 1 || events[0].Content != "<bold>" {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestInsertAtCursorBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		in     token.Sequence
		cursor int
		want   []string
		index  int
	}{
		{"start", seqOf("abc"), 0, []string{"{0}", "abc"}, 0},
		{"end", seqOf("abc"), 3, []string{"abc", "{0}"}, 1},
		{"past end", seqOf("abc", "<b>"), 99, []string{"abc", "<b>", "{0}"}, 2},
		{"empty sequence", token.Sequence{}, 0, []string{"{0}"}, 0},
		{"empty text", seqOf(""), 0, []string{"{0}", ""}, 0},
		{"before leading markers", seqOf("<b>", "<i>", "abc"), 0, []string{"{0}", "<b>", "<i>", "abc"}, 0},
		{"after following markers", seqOf("ab", "</i>", "</b>", "cd"), 2, []string{"ab", "</i>", "</b>", "{0}", "cd"}, 3},
		{"markers are zero width", seqOf("ab", "<b>", "cd"), 3, []string{"ab", "<b>", "c", "{0}", "d"}, 3},
		{"runes not bytes", seqOf("café au lait"), 5, []string{"café ", "{0}", "au lait"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			index := -1
			m.OnMarkerInserted(func(ev MarkerInserted) { index = ev.Index })

			res := m.InsertAtCursor(tt.in, "{0}", tt.cursor)
			expectSeq(t, res.Tokens, tt.want...)
			if index != tt.index {
				t.Errorf("expected event index %d, got %d", tt.index, index)
			}
		})
	}
}

func TestInsertAtCursorInvalid(t *testing.T) {
	m := NewManager()
	fired := false
	m.OnMarkerInserted(func(MarkerInserted) { fired = true })

	in := seqOf("abc")
	for _, res := range []Result{
		m.InsertAtCursor(in, "", 1),
		m.InsertAtCursor(in, "<b>", -1),
		m.InsertAllAtCursor(in, nil, 1),
	} {
		if res.Changed {
			t.Error("expected no change")
		}
		if &res.Tokens[0] != &in[0] {
			t.Error("expected the input sequence back")
		}
	}
	if fired {
		t.Error("no event expected for rejected inserts")
	}
}

func TestInsertAllAtCursor(t *testing.T) {
	m := NewManager()
	var events []MarkerInserted
	m.OnMarkerInserted(func(ev MarkerInserted) { events = append(events, ev) })

	res := m.InsertAllAtCursor(seqOf("Salut"), []string{"<b>", "</b>", "%d"}, 2)
	expectSeq(t, res.Tokens, "Sa", "<b>", "</b>", "%d", "lut")

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Index != i+1 {
			t.Errorf("event %d: expected index %d, got %d", i, i+1, ev.Index)
		}
	}
	if events[2].Content != "%d" {
		t.Errorf("expected last event for %%d, got %q", events[2].Content)
	}
}

func TestDeleteAt(t *testing.T) {
	m := NewManager()
	var events []MarkerDeleted
	m.OnMarkerDeleted(func(ev MarkerDeleted) { events = append(events, ev) })

	in := seqOf("a", "<b>", "c")
	res := m.DeleteAt(in, 1)
	expectSeq(t, res.Tokens, "a", "c")
	expectSeq(t, in, "a", "<b>", "c")
	if len(events) != 1 || events[0].Index != 1 || events[0].Content != "<b>" {
		t.Errorf("unexpected events %+v", events)
	}

	for _, idx := range []int{0, -1, 3} {
		if res := m.DeleteAt(in, idx); res.Changed {
			t.Errorf("DeleteAt(%d): expected no change", idx)
		}
	}
	if len(events) != 1 {
		t.Errorf("expected no further events, got %d", len(events))
	}
}

func TestDeletePairAt(t *testing.T) {
	m := NewManager()
	var events []MarkerDeleted
	m.OnMarkerDeleted(func(ev MarkerDeleted) { events = append(events, ev) })

	res := m.DeletePairAt(seqOf("<b>", "x", "<i>", "y", "</i>", "</b>"), 2)
	expectSeq(t, res.Tokens, "<b>", "x", "y", "</b>")
	if len(events) != 2 || events[0].Index != 4 || events[1].Index != 2 {
		t.Errorf("unexpected events %+v", events)
	}

	res = m.DeletePairAt(seqOf("a", "%s"), 1)
	expectSeq(t, res.Tokens, "a")
}

func TestMoveTo(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"a", "b", "<b>", "c"}},
		{"backward", 3, 0, []string{"<i>", "a", "b", "<b>"}},
		{"to end", 0, 3, []string{"a", "b", "c", "<b>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := seqOf("<b>", "a", "b", "c")
			if tt.name == "backward" {
				in = seqOf("a", "b", "<b>", "<i>")
			}
			m := NewManager()
			var ev MarkerMoved
			m.OnMarkerMoved(func(e MarkerMoved) { ev = e })

			res := m.MoveTo(in, tt.from, tt.to)
			expectSeq(t, res.Tokens, tt.want...)
			if res.Tokens[tt.to].Content != in[tt.from].Content {
				t.Errorf("expected marker at final index %d", tt.to)
			}
			if ev.From != tt.from || ev.To != tt.to {
				t.Errorf("unexpected event %+v", ev)
			}
		})
	}
}

func TestMoveToNoOps(t *testing.T) {
	m := NewManager()
	fired := false
	m.OnMarkerMoved(func(MarkerMoved) { fired = true })

	in := seqOf("<b>", "a", "</b>")
	cases := [][2]int{{0, 0}, {-1, 1}, {0, 3}, {5, 0}, {1, 0}}
	for _, c := range cases {
		res := m.MoveTo(in, c[0], c[1])
		if res.Changed {
			t.Errorf("MoveTo(%d, %d): expected no change", c[0], c[1])
		}
		expectSeq(t, res.Tokens, "<b>", "a", "</b>")
	}
	if fired {
		t.Error("no event expected for rejected moves")
	}
}

func TestObserversRunInRegistrationOrder(t *testing.T) {
	m := NewManager()
	var order []int
	m.OnMarkerInserted(func(MarkerInserted) { order = append(order, 1) })
	m.OnMarkerInserted(func(MarkerInserted) { order = append(order, 2) })
	m.OnMarkerInserted(func(MarkerInserted) { order = append(order, 3) })

	m.InsertAtCursor(seqOf("x"), "{0}", 0)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("unexpected order %v", order)
	}
}
