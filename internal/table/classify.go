package table

import (
	"fmt"
	"io"
	"sort"

	"github.com/signalnine/scorecard/internal/record"
)

// Classify partitions the table's columns into constants (one distinct value
// across all rows, nulls counted as a value) and variables (two or more).
// The partition is exhaustive and exclusive; a single-row table is all
// constants. Variables keep the table's column order.
func Classify(t *Table) (constants map[string]record.Value, variables []string) {
	constants = map[string]record.Value{}
	for _, col := range t.Cols {
		constant := true
		var first record.Value
		for i := range t.Rows {
			v := t.At(i, col)
			if i == 0 {
				first = v
				continue
			}
			if !v.Equal(first) {
				constant = false
				break
			}
		}
		if constant {
			constants[col] = first
		} else {
			variables = append(variables, col)
		}
	}
	return constants, variables
}

// Describe prints the constant columns and, for each variable column, its
// distinct values with counts (top three, count descending).
func Describe(w io.Writer, t *Table, showStackTraces bool) {
	constants, variables := Classify(t)

	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Constants:")
	for _, name := range names {
		fmt.Fprintf(w, "    %s: %s\n", name, constants[name])
	}

	fmt.Fprintln(w, "\nVariables:")
	for _, col := range variables {
		if !showStackTraces && col == record.ColStackTrace {
			continue
		}
		counts := valueCounts(t.Column(col))
		fmt.Fprintf(w, "    %s: n_unique=%d\n", col, len(counts))
		for i, vc := range counts {
			if i >= 3 {
				fmt.Fprintln(w, "        ...")
				break
			}
			fmt.Fprintf(w, "        %dx : %s\n", vc.Count, vc.Value)
		}
	}
}

type valueCount struct {
	Value record.Value
	Count int
}

// valueCounts tallies distinct values, count descending, ties by value order.
func valueCounts(values []record.Value) []valueCount {
	var counts []valueCount
	for _, v := range values {
		found := false
		for i := range counts {
			if counts[i].Value.Equal(v) {
				counts[i].Count++
				found = true
				break
			}
		}
		if !found {
			counts = append(counts, valueCount{Value: v, Count: 1})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value.Compare(counts[j].Value) < 0
	})
	return counts
}
