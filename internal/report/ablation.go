package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/signalnine/scorecard/internal/bootstrap"
	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

// OrderLookup resolves the declared launch order of an episode from its
// result directory reference. Episodes without a declared order return
// false.
type OrderLookup interface {
	Order(dir string) (float64, bool)
}

// AblationReport builds a global report ordered by declared launch order
// and replaces the configuration index with a human-readable change
// description. With progression false every row is diffed against the first
// row (fixed baseline); with progression true against the immediately
// preceding row (incremental).
//
// This assumes the experiments were launched as an ablation study, i.e.
// each configuration declares its launch order.
func AblationReport(t *table.Table, reduce Reducer, progression bool, orders OrderLookup) (*Report, error) {
	rep, err := GlobalReport(t, reduce, nil)
	if err != nil {
		return nil, err
	}
	annotateOrders(t, rep, orders)
	sortRowsBy(rep, func(i int) float64 { return rep.Rows[i].Float("avg_order") }, true)
	return extractChanges(rep, progression), nil
}

// annotateOrders adds an avg_order field to every report row: the mean
// declared order over the row's episodes, skipping episodes with no
// resolvable order. Rows with none at all get NaN and sort last.
func annotateOrders(t *table.Table, rep *Report, orders OrderLookup) {
	// Report keys cover the non-task index levels; match rows by value.
	keyCols := t.Index
	if t.Levels() > 1 {
		keyCols = t.Index[1:]
	}
	for i, key := range rep.Keys {
		var vals []float64
		for r := 0; r < t.Len(); r++ {
			match := true
			for j, col := range keyCols {
				if j >= len(key) || !t.At(r, col).Equal(key[j]) {
					match = false
					break
				}
			}
			if !match || orders == nil {
				continue
			}
			dir, ok := t.At(r, record.ColExpDir).Text()
			if !ok {
				continue
			}
			if order, ok := orders.Order(dir); ok {
				vals = append(vals, order)
			}
		}
		mean := math.NaN()
		if len(vals) > 0 {
			mean = bootstrap.NanMean(vals)
		}
		rep.Rows[i].Set("avg_order", record.Num(mean))
	}
}

// extractChanges replaces the multi-key index with a single change column:
// the fields whose values differ from the reference row, rendered as
// "↳ field=value". The first row is the initial configuration.
func extractChanges(rep *Report, progression bool) *Report {
	out := &Report{Levels: []string{"change"}, Rows: rep.Rows}
	var reference []record.Value
	for _, key := range rep.Keys {
		change := "Initial Configuration"
		if reference != nil {
			var parts []string
			for j := range key {
				if j < len(reference) && !key[j].Equal(reference[j]) {
					parts = append(parts, fmt.Sprintf("%s=%s", rep.Levels[j], key[j]))
				}
			}
			change = "↳ " + strings.Join(parts, ", ")
		}
		out.Keys = append(out.Keys, []record.Value{record.Str(change)})
		if progression {
			reference = key
		} else {
			reference = rep.Keys[0]
		}
	}
	return out
}
