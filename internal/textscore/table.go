package textscore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Table is a wide table of named text columns merged by row position.
// Columns keep independent lengths: rows do not align meaningfully across
// sources, and a short source must never truncate a longer one.
type Table struct {
	order   []string
	columns map[string][]string
}

func NewTable() *Table {
	return &Table{columns: make(map[string][]string)}
}

// AddColumn appends a named column. Adding a name twice extends the
// existing column, which is how per-source partial tables merge.
func (t *Table) AddColumn(name string, values []string) {
	if _, exists := t.columns[name]; !exists {
		t.order = append(t.order, name)
	}
	t.columns[name] = append(t.columns[name], values...)
}

// Merge appends every column of other into t, keyed by column name.
func (t *Table) Merge(other *Table) {
	for _, name := range other.order {
		t.AddColumn(name, other.columns[name])
	}
}

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Column returns the values of a named column, or nil if absent.
func (t *Table) Column(name string) []string {
	return t.columns[name]
}

func (t *Table) rowCount() int {
	n := 0
	for _, col := range t.columns {
		if len(col) > n {
			n = len(col)
		}
	}
	return n
}

// LoadCSV reads a headed CSV file into a table. Records may have ragged
// lengths; missing trailing cells become empty entries.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return NewTable(), nil
	}

	header := rows[0]
	t := NewTable()
	for i, name := range header {
		col := make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if i < len(row) {
				col = append(col, row[i])
			} else {
				col = append(col, "")
			}
		}
		t.AddColumn(name, col)
	}
	return t, nil
}

// WriteCSV persists the table; shorter columns are padded with empty cells.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)

	if err := w.Write(t.Columns()); err != nil {
		return err
	}
	rows := t.rowCount()
	for i := 0; i < rows; i++ {
		rec := make([]string, len(t.order))
		for j, name := range t.order {
			col := t.columns[name]
			if i < len(col) {
				rec[j] = col[i]
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
