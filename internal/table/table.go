// Package table holds the tabular model for episode records: a flat result
// table, the constant/variable column classification, and the canonical
// multi-key index used to group episodes into task/configuration cells.
package table

import (
	"sort"

	"github.com/signalnine/scorecard/internal/record"
)

// Row is one episode record: dotted column name to value. A missing column
// reads as Null.
type Row map[string]record.Value

// Table is a collection of episode rows with an ordered column set and an
// optional canonical index (ordered list of key column names). Index columns
// stay part of the column set; the index only marks which ones form the key.
type Table struct {
	Cols  []string
	Rows  []Row
	Index []string
}

// New builds an unindexed table over the given columns.
func New(cols []string, rows []Row) *Table {
	return &Table{Cols: append([]string(nil), cols...), Rows: rows}
}

// FromRows builds a table whose column set is the sorted union of all row
// keys.
func FromRows(rows []Row) *Table {
	seen := map[string]bool{}
	for _, r := range rows {
		for col := range r {
			seen[col] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return &Table{Cols: cols, Rows: rows}
}

// At returns the value at row i, column col. Missing cells are Null.
func (t *Table) At(i int, col string) record.Value {
	if v, ok := t.Rows[i][col]; ok {
		return v
	}
	return record.Null()
}

// HasCol reports whether the column exists in the table schema.
func (t *Table) HasCol(col string) bool {
	for _, c := range t.Cols {
		if c == col {
			return true
		}
	}
	return false
}

// Key returns the index key tuple for row i.
func (t *Table) Key(i int) []record.Value {
	key := make([]record.Value, len(t.Index))
	for j, col := range t.Index {
		key[j] = t.At(i, col)
	}
	return key
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Levels returns the number of index levels.
func (t *Table) Levels() int { return len(t.Index) }

// Column returns all values of one column, row order preserved.
func (t *Table) Column(col string) []record.Value {
	out := make([]record.Value, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.At(i, col)
	}
	return out
}

// clone copies the table structure. Rows are copied shallowly per row map so
// callers can coerce values without touching the source table.
func (t *Table) clone() *Table {
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		rows[i] = nr
	}
	return &Table{
		Cols:  append([]string(nil), t.Cols...),
		Rows:  rows,
		Index: append([]string(nil), t.Index...),
	}
}

// SortByKey stable-sorts rows lexicographically by their index key tuple.
func (t *Table) SortByKey() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return record.CompareKeys(t.Key(i), t.Key(j)) < 0
	})
}

// ResetIndex returns a copy with the index cleared. Index columns remain
// ordinary columns, so building and resetting an index round-trips the flat
// column set (modulo the documented null-to-"None" coercion on key fields).
func ResetIndex(t *Table) *Table {
	out := t.clone()
	out.Index = nil
	return out
}
