// Package segfile reads and writes tab-separated segment files, one
// segment per line as "source<TAB>target" or "id<TAB>source<TAB>target".
package segfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one segment read from a file.
type Row struct {
	// ID is the first column of three-column files, empty otherwise.
	ID     string
	Line   int
	Source string
	Target string
}

// Read parses the segment file at path.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open segment file: %w", err)
	}
	defer f.Close()

	rows, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Decode parses segment rows from r. Blank lines and a leading header row
// are skipped.
func Decode(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if lineNum == 1 && isHeader(line) {
			continue
		}

		cols := strings.Split(line, "\t")
		row := Row{Line: lineNum}
		switch len(cols) {
		case 1:
			row.Source = unescapeTSV(cols[0])
		case 2:
			row.Source, row.Target = unescapeTSV(cols[0]), unescapeTSV(cols[1])
		case 3:
			row.ID = cols[0]
			row.Source, row.Target = unescapeTSV(cols[1]), unescapeTSV(cols[2])
		default:
			return nil, fmt.Errorf("line %d: expected at most 3 columns, got %d", lineNum, len(cols))
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan segment file: %w", err)
	}
	return rows, nil
}

// Key returns the row's ID, or "<file>:<line>" when the file has no ID
// column.
func (r Row) Key(file string) string {
	if r.ID != "" {
		return r.ID
	}
	return file + ":" + strconv.Itoa(r.Line)
}

// Write stores rows at path in the three-column form with a header.
func Write(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create segment file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Encode writes rows to w in the three-column form with a header.
func Encode(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "id\tsource\ttarget")
	for _, r := range rows {
		fmt.Fprintf(bw, "%s\t%s\t%s\n", escapeTSV(r.ID), escapeTSV(r.Source), escapeTSV(r.Target))
	}
	return bw.Flush()
}

func isHeader(line string) bool {
	switch strings.ToLower(line) {
	case "source\ttarget", "id\tsource\ttarget":
		return true
	}
	return false
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

func unescapeTSV(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
