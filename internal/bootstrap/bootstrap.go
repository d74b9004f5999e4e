// Package bootstrap implements the stratified bootstrap estimator used for
// reward uncertainty. Episodes are grouped (by task, typically) into the
// rows of a sample matrix, rows are resampled with replacement, and each
// resample reduces to one scalar. Resampling at the group level gives every
// task equal expected weight regardless of how many episodes it has.
package bootstrap

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

// Options for one estimate.
type Options struct {
	// Resamples is the bootstrap distribution size.
	Resamples int
	// Prior is a pseudo-observation appended to every group, regularizing
	// groups with very few samples toward it. NaN disables it.
	Prior float64
	// CoverageThreshold drops groups whose fraction of defined metric
	// values is below it, so mostly-failed groups do not add noise.
	CoverageThreshold float64
	// GroupBy is the stratification column, the task name by default.
	GroupBy string
}

// DefaultOptions matches the reporting defaults: 100 resamples, prior 0.5,
// coverage threshold 0.7, grouped by task.
func DefaultOptions() Options {
	return Options{
		Resamples:         100,
		Prior:             0.5,
		CoverageThreshold: 0.7,
		GroupBy:           record.ColTask,
	}
}

// Matrix builds the 2D sample matrix: one row per group passing the
// coverage threshold, columns the group's metric values NaN-padded to the
// widest group.
func Matrix(t *table.Table, metric, groupBy string, threshold float64) [][]float64 {
	groups := table.GroupBy(t, []string{groupBy})

	var rows [][]float64
	width := 0
	for _, g := range groups {
		var vals []float64
		defined := 0
		for i := 0; i < g.Table.Len(); i++ {
			f, ok := g.Table.At(i, metric).Float()
			if ok {
				defined++
				vals = append(vals, f)
			} else {
				vals = append(vals, math.NaN())
			}
		}
		if len(vals) == 0 || float64(defined)/float64(len(vals)) < threshold {
			continue
		}
		if len(vals) > width {
			width = len(vals)
		}
		rows = append(rows, vals)
	}
	for i, r := range rows {
		for len(r) < width {
			r = append(r, math.NaN())
		}
		rows[i] = r
	}
	return rows
}

// WithPrior appends one constant pseudo-observation column to every row.
func WithPrior(m [][]float64, prior float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, r := range m {
		out[i] = append(append([]float64(nil), r...), prior)
	}
	return out
}

// Resample draws n row-resamples with replacement and reduces each to one
// scalar, returning the full bootstrap distribution. A nil rng gets a
// time-seeded source; pass a seeded one for deterministic output.
func Resample(m [][]float64, n int, reduce func([]float64) float64, rng *rand.Rand) []float64 {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if reduce == nil {
		reduce = NanMean
	}
	out := make([]float64, n)
	for b := 0; b < n; b++ {
		var flat []float64
		for range m {
			flat = append(flat, m[rng.Intn(len(m))]...)
		}
		out[b] = reduce(flat)
	}
	return out
}

// Estimate runs the full pipeline on a table: matrix, prior column,
// resampling, then the distribution's mean and standard deviation. An empty
// matrix (no group passes the threshold) yields NaN, NaN.
func Estimate(t *table.Table, metric string, opts Options, rng *rand.Rand) (mean, std float64) {
	if opts.GroupBy == "" {
		opts.GroupBy = record.ColTask
	}
	if opts.Resamples <= 0 {
		opts.Resamples = 100
	}
	m := Matrix(t, metric, opts.GroupBy, opts.CoverageThreshold)
	if len(m) == 0 {
		return math.NaN(), math.NaN()
	}
	if !math.IsNaN(opts.Prior) {
		m = WithPrior(m, opts.Prior)
	}
	dist := Resample(m, opts.Resamples, NanMean, rng)
	return NanMean(dist), NanStd(dist)
}

// NanMean is the mean over defined values; NaN when none are defined.
func NanMean(xs []float64) float64 {
	kept := dropNaN(xs)
	if len(kept) == 0 {
		return math.NaN()
	}
	return stat.Mean(kept, nil)
}

// NanStd is the population standard deviation over defined values.
func NanStd(xs []float64) float64 {
	kept := dropNaN(xs)
	if len(kept) == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(kept, nil)
}

func dropNaN(xs []float64) []float64 {
	kept := xs[:0:0]
	for _, x := range xs {
		if !math.IsNaN(x) {
			kept = append(kept, x)
		}
	}
	return kept
}
