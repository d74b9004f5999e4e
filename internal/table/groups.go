package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/signalnine/scorecard/internal/record"
)

// Group is one cell: the rows sharing one key tuple over some index levels.
type Group struct {
	Key   []record.Value
	Table *Table
}

// GroupBy groups the table's rows by the given key columns and returns the
// groups sorted by key tuple. Each group's table keeps the parent's index.
func GroupBy(t *Table, by []string) []Group {
	var groups []Group
	pos := map[string]int{}
	for i := range t.Rows {
		key := make([]record.Value, len(by))
		for j, col := range by {
			key[j] = t.At(i, col)
		}
		ks := keyString(key)
		at, ok := pos[ks]
		if !ok {
			at = len(groups)
			pos[ks] = at
			groups = append(groups, Group{
				Key:   key,
				Table: &Table{Cols: t.Cols, Index: t.Index},
			})
		}
		g := groups[at].Table
		g.Rows = append(g.Rows, t.Rows[i])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return record.CompareKeys(groups[i].Key, groups[j].Key) < 0
	})
	return groups
}

// Groups groups by the full canonical index: one group per cell.
func Groups(t *Table) []Group {
	return GroupBy(t, t.Index)
}

func keyString(key []record.Value) string {
	var b strings.Builder
	for _, v := range key {
		fmt.Fprintf(&b, "%d:%s\x00", v.Kind(), v)
	}
	return b.String()
}
