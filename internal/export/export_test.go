package export_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/signalnine/scorecard/internal/export"
	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/report"
)

func sampleReport() *report.Report {
	rep := &report.Report{Levels: []string{"use_memory"}}
	add := func(flag bool, reward float64, completed string) {
		s := &report.Summary{}
		s.Set("avg_reward", record.Num(reward))
		s.Set("n_completed", record.Str(completed))
		rep.Keys = append(rep.Keys, []record.Value{record.Bool(flag)})
		rep.Rows = append(rep.Rows, s)
	}
	add(true, 0.8, "10/10")
	add(false, 0.4, "9/10")
	return rep
}

func TestToTSV(t *testing.T) {
	got := export.ToTSV(sampleReport())
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), got)
	}
	if lines[0] != "use_memory\tavg_reward\tn_completed" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "✓\t0.8\t10/10" {
		t.Errorf("first row = %q", lines[1])
	}
	if lines[2] != "-\t0.4\t9/10" {
		t.Errorf("second row = %q", lines[2])
	}
}

func TestWriteMarkdown(t *testing.T) {
	var b strings.Builder
	if err := export.WriteReport(sampleReport(), "markdown", &b); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "| use_memory | avg_reward | n_completed |") {
		t.Errorf("missing header row:\n%s", out)
	}
	if !strings.Contains(out, "|---|---|---|") {
		t.Errorf("missing separator row:\n%s", out)
	}
	if !strings.Contains(out, "| ✓ | 0.8 | 10/10 |") {
		t.Errorf("missing data row:\n%s", out)
	}
}

func TestWriteTable(t *testing.T) {
	var b strings.Builder
	if err := export.WriteReport(sampleReport(), "table", &b); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := b.String()
	// Terminal headers are shrunk and uppercased.
	if !strings.Contains(out, "USE_MEMORY") || !strings.Contains(out, "AVG_REWARD") {
		t.Errorf("missing uppercase headers:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("-", 80)) {
		t.Errorf("missing rule line:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var b strings.Builder
	if err := export.WriteReport(sampleReport(), "json", &b); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(b.String()), &rows); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["avg_reward"] != "0.8" {
		t.Errorf("avg_reward = %v", rows[0]["avg_reward"])
	}
}

func TestShrinkHeader(t *testing.T) {
	cases := []struct{ in, want string }{
		{"agent_args.flags.use_memory", "use_memory"},
		{"avg_reward", "avg_reward"},
	}
	for _, c := range cases {
		if got := export.ShrinkHeader(c.in); got != c.want {
			t.Errorf("ShrinkHeader(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWritePivot(t *testing.T) {
	cell := func(reward float64) *report.Summary {
		s := &report.Summary{}
		s.Set("avg_reward", record.Num(reward))
		return s
	}
	p := &report.Pivot{
		RowLevels: []string{"env_args.task_name"},
		ColLevels: []string{"agent_args.flags.use_memory"},
		RowKeys:   [][]record.Value{{record.Str("t1")}, {record.Str("t2")}},
		ColKeys:   [][]record.Value{{record.Bool(false)}, {record.Bool(true)}},
		Cells: [][]*report.Summary{
			{cell(0.1), cell(0.9)},
			{nil, cell(0.5)},
		},
	}

	var b strings.Builder
	if err := export.WritePivot(p, "avg_reward", "markdown", &b); err != nil {
		t.Fatalf("WritePivot: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "| env_args.task_name | - avg_reward | ✓ avg_reward |") {
		t.Errorf("missing pivot header:\n%s", out)
	}
	if !strings.Contains(out, "| t1 | 0.1 | 0.9 |") {
		t.Errorf("missing t1 row:\n%s", out)
	}
	if !strings.Contains(out, "| t2 |  | 0.5 |") {
		t.Errorf("empty cell not rendered blank:\n%s", out)
	}
}
