// Package report reduces task/configuration cells to summary rows and
// assembles them into comparison reports: per-task breakdowns, global
// agent comparisons, ablation progressions and flag-impact ratios.
package report

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/signalnine/scorecard/internal/bootstrap"
	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

// Summary is one reduced cell: an ordered list of named fields, so the
// standard reducer and the stats reducer can share all assembly and
// rendering code. NaN numbers mark undefined values.
type Summary struct {
	Names  []string
	Values []record.Value
}

func (s *Summary) Set(name string, v record.Value) {
	for i, n := range s.Names {
		if n == name {
			s.Values[i] = v
			return
		}
	}
	s.Names = append(s.Names, name)
	s.Values = append(s.Values, v)
}

func (s *Summary) Get(name string) (record.Value, bool) {
	for i, n := range s.Names {
		if n == name {
			return s.Values[i], true
		}
	}
	return record.Null(), false
}

// Float returns the named field as a number, NaN when missing or not
// numeric.
func (s *Summary) Float(name string) float64 {
	v, ok := s.Get(name)
	if !ok {
		return math.NaN()
	}
	f, ok := v.Float()
	if !ok {
		return math.NaN()
	}
	return f
}

// Has reports whether any summary in the slice defines the field.
func Has(rows []*Summary, name string) bool {
	for _, s := range rows {
		if s == nil {
			continue
		}
		if _, ok := s.Get(name); ok {
			return true
		}
	}
	return false
}

// Reducer collapses one cell into a summary row. A nil summary with a nil
// error means "no data here, omit the row".
type Reducer func(cell *table.Table) (*Summary, error)

// NewSummarizer builds the standard episode reducer: average reward with a
// stratified-bootstrap uncertainty, raw reward and step means, completion
// ratio and error count. rng seeds the bootstrap; nil means nondeterministic.
func NewSummarizer(opts *config.Options, rng *rand.Rand) Reducer {
	if opts == nil {
		opts = config.Default()
	}
	boot := bootstrap.Options{
		Resamples:         opts.Bootstrap.Resamples,
		Prior:             opts.Bootstrap.Prior,
		CoverageThreshold: opts.Bootstrap.CoverageThreshold,
		GroupBy:           opts.Index.TaskField,
	}
	digits := opts.Report.RoundDigits

	return func(cell *table.Table) (*Summary, error) {
		s := &Summary{}
		if !cell.HasCol(record.ColReward) {
			s.Set("avg_reward", record.Num(math.NaN()))
			s.Set("uncertainty_reward", record.Num(math.NaN()))
			s.Set("avg_raw_reward", record.Num(math.NaN()))
			s.Set("avg_steps", record.Num(math.NaN()))
			s.Set("n_completed", record.Str(fmt.Sprintf("0/%d", cell.Len())))
			s.Set("n_err", record.Num(0))
			return s, nil
		}

		nErr, nCompleted := countCompleted(cell)
		if nCompleted == 0 {
			return nil, nil
		}
		if err := checkErroredRewards(cell); err != nil {
			return nil, err
		}

		_, std := bootstrap.Estimate(cell, record.ColReward, boot, rng)

		s.Set("avg_reward", record.Num(roundTo(columnMean(cell, record.ColReward), digits)))
		s.Set("uncertainty_reward", record.Num(roundTo(std, digits)))
		s.Set("avg_raw_reward", record.Num(roundTo(columnMean(cell, record.ColRawReward), digits)))
		s.Set("avg_steps", record.Num(roundTo(columnMean(cell, record.ColSteps), digits)))
		s.Set("n_completed", record.Str(fmt.Sprintf("%d/%d", nCompleted, cell.Len())))
		s.Set("n_err", record.Num(float64(nErr)))
		return s, nil
	}
}

// NewStatsSummarizer builds the sibling reducer aggregating step statistics:
// stats.cum_* columns are summed, stats.max_* columns take the max. Any
// other stats prefix is a configuration error.
func NewStatsSummarizer(opts *config.Options) Reducer {
	if opts == nil {
		opts = config.Default()
	}
	digits := opts.Report.RoundDigits

	return func(cell *table.Table) (*Summary, error) {
		_, nCompleted := countCompleted(cell)
		if nCompleted == 0 {
			return nil, nil
		}

		s := &Summary{}
		s.Set("avg_reward", record.Num(roundTo(columnMean(cell, record.ColReward), digits)))
		for _, col := range cell.Cols {
			if !strings.HasPrefix(col, record.StatsPrefix) {
				continue
			}
			name := strings.TrimPrefix(col, record.StatsPrefix)
			op, _, _ := strings.Cut(name, "_")
			switch op {
			case "cum":
				s.Set(name, record.Num(roundTo(columnSum(cell, col), digits)))
			case "max":
				s.Set(name, record.Num(roundTo(columnMax(cell, col), digits)))
			default:
				return nil, fmt.Errorf("unknown stats operation %q in column %s", op, col)
			}
		}
		return s, nil
	}
}

// countCompleted returns the number of errored rows and the number of
// completed rows (errored, truncated or terminated).
func countCompleted(cell *table.Table) (nErr, nCompleted int) {
	for i := 0; i < cell.Len(); i++ {
		errored := !cell.At(i, record.ColErrMsg).IsNull()
		truncated, _ := cell.At(i, record.ColTruncated).Bool()
		terminated, _ := cell.At(i, record.ColTerminated).Bool()
		if errored {
			nErr++
		}
		if errored || truncated || terminated {
			nCompleted++
		}
	}
	return nErr, nCompleted
}

// checkErroredRewards enforces the integrity invariant: an errored episode
// must carry zero cumulative reward. A violation means corrupted upstream
// data and aborts the reduction.
func checkErroredRewards(cell *table.Table) error {
	sum := 0.0
	for i := 0; i < cell.Len(); i++ {
		if cell.At(i, record.ColErrMsg).IsNull() {
			continue
		}
		if f, ok := cell.At(i, record.ColReward).Float(); ok {
			sum += f
		}
	}
	if sum != 0 {
		return fmt.Errorf("errored episodes carry nonzero cum_reward (sum=%g)", sum)
	}
	return nil
}

func columnMean(t *table.Table, col string) float64 {
	return bootstrap.NanMean(columnFloats(t, col))
}

func columnSum(t *table.Table, col string) float64 {
	sum := 0.0
	for _, f := range columnFloats(t, col) {
		if !math.IsNaN(f) {
			sum += f
		}
	}
	return sum
}

func columnMax(t *table.Table, col string) float64 {
	max := math.NaN()
	for _, f := range columnFloats(t, col) {
		if math.IsNaN(f) {
			continue
		}
		if math.IsNaN(max) || f > max {
			max = f
		}
	}
	return max
}

func columnFloats(t *table.Table, col string) []float64 {
	out := make([]float64, t.Len())
	for i := 0; i < t.Len(); i++ {
		f, ok := t.At(i, col).Float()
		if !ok {
			f = math.NaN()
		}
		out[i] = f
	}
	return out
}

func roundTo(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}
