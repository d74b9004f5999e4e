package report

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

// Report is a 1D report: one summary row per key tuple over some index
// levels. Keys and Rows are parallel; cells the reducer omitted are gone,
// not present as zeros.
type Report struct {
	Levels []string
	Keys   [][]record.Value
	Rows   []*Summary
}

// Pivot is a 2D report: the first index levels stay as rows, the remaining
// levels unstack into columns, one summary per cell (nil where the cell has
// no data).
type Pivot struct {
	RowLevels []string
	ColLevels []string
	RowKeys   [][]record.Value
	ColKeys   [][]record.Value
	Cells     [][]*Summary
}

// Reduce groups the table by the given key columns and reduces each group,
// dropping omitted cells.
func Reduce(t *table.Table, by []string, reduce Reducer) (*Report, error) {
	rep := &Report{Levels: append([]string(nil), by...)}
	for _, g := range table.GroupBy(t, by) {
		s, err := reduce(g.Table)
		if err != nil {
			return nil, fmt.Errorf("reducing cell %v: %w", keyStrings(g.Key), err)
		}
		if s == nil {
			continue
		}
		rep.Keys = append(rep.Keys, g.Key)
		rep.Rows = append(rep.Rows, s)
	}
	return rep, nil
}

// Report2D groups by the full canonical index, reduces each cell, and
// pivots: the first nRowKeys index levels become rows, the rest become
// columns.
func Report2D(t *table.Table, reduce Reducer, nRowKeys int) (*Pivot, error) {
	if nRowKeys < 1 || nRowKeys > t.Levels() {
		return nil, fmt.Errorf("n_row_keys %d out of range for a %d-level index", nRowKeys, t.Levels())
	}
	rep, err := Reduce(t, t.Index, reduce)
	if err != nil {
		return nil, err
	}

	p := &Pivot{
		RowLevels: rep.Levels[:nRowKeys],
		ColLevels: rep.Levels[nRowKeys:],
	}
	rowAt := map[string]int{}
	colAt := map[string]int{}
	type cell struct{ r, c int }
	placed := map[cell]*Summary{}

	for i, key := range rep.Keys {
		rk, ck := key[:nRowKeys], key[nRowKeys:]
		r, ok := rowAt[flatKey(rk)]
		if !ok {
			r = len(p.RowKeys)
			rowAt[flatKey(rk)] = r
			p.RowKeys = append(p.RowKeys, rk)
		}
		c, ok := colAt[flatKey(ck)]
		if !ok {
			c = len(p.ColKeys)
			colAt[flatKey(ck)] = c
			p.ColKeys = append(p.ColKeys, ck)
		}
		placed[cell{r, c}] = rep.Rows[i]
	}

	rowPerm := sortKeysInPlace(p.RowKeys)
	colPerm := sortKeysInPlace(p.ColKeys)
	p.Cells = make([][]*Summary, len(p.RowKeys))
	for r := range p.Cells {
		p.Cells[r] = make([]*Summary, len(p.ColKeys))
		for c := range p.Cells[r] {
			p.Cells[r][c] = placed[cell{rowPerm[r], colPerm[c]}]
		}
	}
	return p, nil
}

// GlobalReport summarizes the whole result set. With a single-level index
// (no configuration field distinguishes runs) it produces a per-task report
// plus a synthetic [ALL TASKS] row over the entire table. Otherwise it
// averages across tasks per configuration, renames index levels (default
// strips the agent flags prefix) and sorts by avg_reward descending.
func GlobalReport(t *table.Table, reduce Reducer, rename func(string) string) (*Report, error) {
	if rename == nil {
		rename = func(name string) string {
			return strings.TrimPrefix(name, record.FlagsPrefix)
		}
	}

	if t.Levels() == 1 {
		fmt.Fprintln(os.Stderr, "Only one configuration found, returning a per-task report.")
		rep, err := Reduce(t, t.Index, reduce)
		if err != nil {
			return nil, err
		}
		all, err := reduce(t)
		if err != nil {
			return nil, err
		}
		if all != nil {
			rep.Keys = append(rep.Keys, []record.Value{record.Str("[ALL TASKS]")})
			rep.Rows = append(rep.Rows, all)
		}
		return rep, nil
	}

	rep, err := Reduce(t, t.Index[1:], reduce)
	if err != nil {
		return nil, err
	}
	for i, name := range rep.Levels {
		rep.Levels[i] = rename(name)
	}
	if Has(rep.Rows, "avg_reward") {
		sortRowsBy(rep, func(i int) float64 { return rep.Rows[i].Float("avg_reward") }, false)
	}
	return rep, nil
}

// sortRowsBy stable-sorts report rows by a numeric key, NaN always last.
func sortRowsBy(rep *Report, key func(i int) float64, ascending bool) {
	perm := make([]int, len(rep.Rows))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		x, y := key(perm[a]), key(perm[b])
		switch {
		case math.IsNaN(x):
			return false
		case math.IsNaN(y):
			return true
		case ascending:
			return x < y
		default:
			return x > y
		}
	})
	keys := make([][]record.Value, len(perm))
	rows := make([]*Summary, len(perm))
	for i, p := range perm {
		keys[i] = rep.Keys[p]
		rows[i] = rep.Rows[p]
	}
	rep.Keys, rep.Rows = keys, rows
}

// sortKeysInPlace sorts key tuples and returns the permutation mapping each
// sorted position back to its pre-sort position.
func sortKeysInPlace(keys [][]record.Value) []int {
	perm := make([]int, len(keys))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return record.CompareKeys(keys[perm[a]], keys[perm[b]]) < 0
	})
	sorted := make([][]record.Value, len(keys))
	for i, p := range perm {
		sorted[i] = keys[p]
	}
	copy(keys, sorted)
	return perm
}

func flatKey(key []record.Value) string {
	var b strings.Builder
	for _, v := range key {
		fmt.Fprintf(&b, "%d:%s\x00", v.Kind(), v)
	}
	return b.String()
}

func keyStrings(key []record.Value) []string {
	out := make([]string, len(key))
	for i, v := range key {
		out[i] = v.String()
	}
	return out
}
