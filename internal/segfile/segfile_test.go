package segfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	input := "source\ttarget\n" +
		"Hello <b>world</b>\tBonjour <b>monde</b>\n" +
		"\n" +
		"Line\\none\tLigne\\tun\n" +
		"untranslated {0}\n"

	rows, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].ID != "" || rows[0].Target != "Bonjour <b>monde</b>" {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[1].Source != "Line\none" || rows[1].Target != "Ligne\tun" {
		t.Errorf("expected unescaped row, got %+v", rows[1])
	}
	if rows[2].Target != "" || rows[2].Line != 5 {
		t.Errorf("unexpected source-only row %+v", rows[2])
	}
}

func TestRowKeys(t *testing.T) {
	a, err := Decode(strings.NewReader("Hello <b>x</b>\tSalut <b>x</b>\n"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Decode(strings.NewReader("Bye {0}\tAu revoir {0}\n"))
	if err != nil {
		t.Fatal(err)
	}

	keyA, keyB := a[0].Key("a.tsv"), b[0].Key("b.tsv")
	if keyA == keyB {
		t.Errorf("expected distinct keys for rows of different files, got %q twice", keyA)
	}
	if keyA != "a.tsv:1" {
		t.Errorf("expected a.tsv:1, got %q", keyA)
	}

	withID, err := Decode(strings.NewReader("greeting\tHi\tSalut\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := withID[0].Key("c.tsv"); got != "greeting" {
		t.Errorf("expected explicit ID, got %q", got)
	}
}

func TestDecodeRejectsWideRows(t *testing.T) {
	if _, err := Decode(strings.NewReader("a\tb\tc\td\n")); err == nil {
		t.Error("expected error for four columns")
	}
}

func TestEncodeDecodeFile(t *testing.T) {
	rows := []Row{
		{ID: "greeting", Source: "Hi\t<b>{0}</b>", Target: "Salut\n<b>{0}</b>"},
		{ID: "path", Source: `C:\dir %s`, Target: `C:\dossier %s`},
	}
	path := filepath.Join(t.TempDir(), "segments.tsv")
	if err := Write(path, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}
	for i := range rows {
		if got[i].ID != rows[i].ID || got[i].Source != rows[i].Source || got[i].Target != rows[i].Target {
			t.Errorf("row %d: expected %+v, got %+v", i, rows[i], got[i])
		}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, rows[:1]); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "id\tsource\ttarget\n") {
		t.Errorf("expected header, got %q", buf.String())
	}
}
