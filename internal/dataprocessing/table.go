package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is an ordered list of columns with string rows. It keeps the
// source schema of a file as-is; typed access goes through the decoders.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTable reads CSV with a header row. Empty input yields a table with no
// columns. Repeated header names get positional suffixes ("X", "X.1").
// Rows shorter than the header are padded with empty cells; rows longer
// than the header fail with ErrMalformedRow.
func ReadTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &Table{Columns: uniqueColumns(header)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}
		switch {
		case len(record) > len(header):
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d",
				ErrMalformedRow, len(table.Rows)+1, len(record), len(header))
		case len(record) < len(header):
			padded := make([]string, len(header))
			copy(padded, record)
			record = padded
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// ReadTableFile reads the CSV file at path
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex finds a column by name. An exact match wins; otherwise case
// and surrounding whitespace are ignored. It returns -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	if i := t.columnExact(name); i >= 0 {
		return i
	}
	want := strings.TrimSpace(name)
	for i, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), want) {
			return i
		}
	}
	return -1
}

func (t *Table) columnExact(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// SetColumn sets the column named exactly name to value on every row,
// adding the column when absent
func (t *Table) SetColumn(name, value string) {
	idx := t.columnExact(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], value)
		}
		return
	}
	for i := range t.Rows {
		t.Rows[i][idx] = value
	}
}

// ConcatTables stacks tables in order. The result has the union of all
// columns in first-appearance order; cells of columns a table lacks are
// empty. Columns are unified by exact name, so "Team" and "team" stay
// separate.
func ConcatTables(tables []*Table) *Table {
	out := &Table{}
	index := make(map[string]int)
	names := make([][]string, len(tables))
	for n, t := range tables {
		names[n] = uniqueColumns(t.Columns)
		for _, c := range names[n] {
			if _, ok := index[c]; !ok {
				index[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for n, t := range tables {
		mapping := make([]int, len(names[n]))
		for i, c := range names[n] {
			mapping[i] = index[c]
		}
		for _, row := range t.Rows {
			merged := make([]string, len(out.Columns))
			for i, cell := range row {
				if i < len(mapping) {
					merged[mapping[i]] = cell
				}
			}
			out.Rows = append(out.Rows, merged)
		}
	}

	return out
}

// uniqueColumns renames repeated names to "name.1", "name.2" and so on,
// skipping suffixes already taken by another column
func uniqueColumns(columns []string) []string {
	out := make([]string, len(columns))
	taken := make(map[string]bool, len(columns))
	for _, c := range columns {
		taken[c] = true
	}

	seen := make(map[string]int, len(columns))
	for i, c := range columns {
		n := seen[c]
		seen[c] = n + 1
		if n == 0 {
			out[i] = c
			continue
		}
		name := c + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = c + "." + strconv.Itoa(n)
		}
		seen[c] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
