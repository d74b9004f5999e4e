package report

import (
	"fmt"
	"os"

	"github.com/signalnine/scorecard/internal/bootstrap"
	"github.com/signalnine/scorecard/internal/record"
)

// FlagReport compares a metric between the true and false rows of every
// boolean index level: one row per flag with the two means and their ratio,
// sorted by ratio descending. A report with a single index level has no
// flags to compare; that prints a notice and yields nil.
func FlagReport(rep *Report, metric string, roundDigits int) *Report {
	if len(rep.Levels) <= 1 {
		fmt.Fprintf(os.Stderr,
			"Only %d level(s) in the index, cannot produce flag report.\n", len(rep.Levels))
		return nil
	}

	out := &Report{Levels: []string{"hparam"}}
	for j, level := range rep.Levels {
		if !boolLevel(rep, j) {
			continue
		}
		var trues, falses []float64
		for i, key := range rep.Keys {
			b, _ := key[j].Bool()
			v := rep.Rows[i].Float(metric)
			if b {
				trues = append(trues, v)
			} else {
				falses = append(falses, v)
			}
		}
		avgTrue := bootstrap.NanMean(trues)
		avgFalse := bootstrap.NanMean(falses)

		s := &Summary{}
		s.Set("avg_true", record.Num(avgTrue))
		s.Set("avg_false", record.Num(avgFalse))
		s.Set("ratio", record.Num(avgTrue/avgFalse))
		out.Keys = append(out.Keys, []record.Value{record.Str(level)})
		out.Rows = append(out.Rows, s)
	}

	sortRowsBy(out, func(i int) float64 { return out.Rows[i].Float("ratio") }, false)
	for _, s := range out.Rows {
		for i, name := range s.Names {
			if f, ok := s.Values[i].Float(); ok {
				s.Set(name, record.Num(roundTo(f, roundDigits)))
			}
		}
	}
	return out
}

// boolLevel reports whether every key value at level j is a boolean.
func boolLevel(rep *Report, j int) bool {
	if len(rep.Keys) == 0 {
		return false
	}
	for _, key := range rep.Keys {
		if _, ok := key[j].Bool(); !ok {
			return false
		}
	}
	return true
}
