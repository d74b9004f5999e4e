package report_test

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/report"
	"github.com/signalnine/scorecard/internal/table"
)

func episodeCell() *table.Table {
	cols := []string{"env_args.task_name", "cum_reward", "cum_raw_reward", "n_steps", "truncated", "terminated", "err_msg"}
	rows := []table.Row{
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Num(1), "cum_raw_reward": record.Num(1), "n_steps": record.Num(4), "truncated": record.Bool(false), "terminated": record.Bool(true), "err_msg": record.Null()},
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Num(0), "cum_raw_reward": record.Num(0.5), "n_steps": record.Num(8), "truncated": record.Bool(true), "terminated": record.Bool(false), "err_msg": record.Null()},
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Num(0), "cum_raw_reward": record.Num(0), "n_steps": record.Num(2), "truncated": record.Bool(false), "terminated": record.Bool(false), "err_msg": record.Str("boom")},
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Null(), "cum_raw_reward": record.Null(), "n_steps": record.Null(), "truncated": record.Bool(false), "terminated": record.Bool(false), "err_msg": record.Null()},
	}
	return table.New(cols, rows)
}

func TestSummarizer(t *testing.T) {
	reduce := report.NewSummarizer(config.Default(), rand.New(rand.NewSource(1)))
	s, err := reduce(episodeCell())
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if s == nil {
		t.Fatal("expected a summary for a cell with completed episodes")
	}

	if got := s.Float("avg_reward"); math.Abs(got-0.333) > 1e-9 {
		t.Errorf("avg_reward = %v, want 0.333", got)
	}
	if got := s.Float("avg_steps"); math.Abs(got-4.667) > 1e-9 {
		t.Errorf("avg_steps = %v, want 4.667", got)
	}
	if v, ok := s.Get("n_completed"); !ok {
		t.Error("missing n_completed")
	} else if txt, _ := v.Text(); txt != "3/4" {
		t.Errorf("n_completed = %s, want 3/4", txt)
	}
	if got := s.Float("n_err"); got != 1 {
		t.Errorf("n_err = %v, want 1", got)
	}
	if u := s.Float("uncertainty_reward"); math.IsNaN(u) || u < 0 {
		t.Errorf("uncertainty_reward = %v, want a defined nonnegative value", u)
	}
}

func TestSummarizerNoneCompleted(t *testing.T) {
	cols := []string{"env_args.task_name", "cum_reward", "truncated", "terminated", "err_msg"}
	rows := []table.Row{
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Null(), "truncated": record.Bool(false), "terminated": record.Bool(false), "err_msg": record.Null()},
	}
	reduce := report.NewSummarizer(config.Default(), nil)
	s, err := reduce(table.New(cols, rows))
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if s != nil {
		t.Error("a cell with zero completed episodes should be omitted")
	}
}

func TestSummarizerErroredRewardInvariant(t *testing.T) {
	cols := []string{"env_args.task_name", "cum_reward", "truncated", "terminated", "err_msg"}
	rows := []table.Row{
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Num(0.5), "truncated": record.Bool(false), "terminated": record.Bool(false), "err_msg": record.Str("boom")},
	}
	reduce := report.NewSummarizer(config.Default(), nil)
	_, err := reduce(table.New(cols, rows))
	if err == nil {
		t.Fatal("expected an error for an errored episode with nonzero reward")
	}
	if !strings.Contains(err.Error(), "cum_reward") {
		t.Errorf("error %q does not name the offending column", err)
	}
}

func TestSummarizerMissingRewardColumn(t *testing.T) {
	cols := []string{"env_args.task_name", "n_steps"}
	rows := []table.Row{
		{"env_args.task_name": record.Str("t1"), "n_steps": record.Num(3)},
		{"env_args.task_name": record.Str("t1"), "n_steps": record.Num(5)},
	}
	reduce := report.NewSummarizer(config.Default(), nil)
	s, err := reduce(table.New(cols, rows))
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if !math.IsNaN(s.Float("avg_reward")) {
		t.Error("avg_reward should be NaN without a reward column")
	}
	if v, _ := s.Get("n_completed"); v.String() != "0/2" {
		t.Errorf("n_completed = %s, want 0/2", v)
	}
}

func TestStatsSummarizer(t *testing.T) {
	cols := []string{"env_args.task_name", "cum_reward", "truncated", "terminated", "err_msg", "stats.cum_tokens", "stats.max_depth"}
	rows := []table.Row{
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Num(1), "truncated": record.Bool(false), "terminated": record.Bool(true), "err_msg": record.Null(), "stats.cum_tokens": record.Num(100), "stats.max_depth": record.Num(3)},
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Num(0), "truncated": record.Bool(true), "terminated": record.Bool(false), "err_msg": record.Null(), "stats.cum_tokens": record.Num(250), "stats.max_depth": record.Num(7)},
	}
	reduce := report.NewStatsSummarizer(config.Default())
	s, err := reduce(table.New(cols, rows))
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if got := s.Float("cum_tokens"); got != 350 {
		t.Errorf("cum_tokens = %v, want the sum 350", got)
	}
	if got := s.Float("max_depth"); got != 7 {
		t.Errorf("max_depth = %v, want the max 7", got)
	}
	if got := s.Float("avg_reward"); got != 0.5 {
		t.Errorf("avg_reward = %v, want 0.5", got)
	}
}

func TestStatsSummarizerUnknownOperation(t *testing.T) {
	cols := []string{"env_args.task_name", "cum_reward", "truncated", "terminated", "err_msg", "stats.avg_latency"}
	rows := []table.Row{
		{"env_args.task_name": record.Str("t1"), "cum_reward": record.Num(1), "truncated": record.Bool(false), "terminated": record.Bool(true), "err_msg": record.Null(), "stats.avg_latency": record.Num(1)},
	}
	reduce := report.NewStatsSummarizer(config.Default())
	if _, err := reduce(table.New(cols, rows)); err == nil {
		t.Fatal("expected an error for an unrecognized stats column prefix")
	}
}
