package result_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signalnine/scorecard/internal/result"
	"github.com/signalnine/scorecard/internal/table"
)

func writeEpisode(t *testing.T, dir string, rec map[string]any, order *float64) {
	t.Helper()
	if err := result.WriteRecord(dir, rec); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if order != nil {
		if err := result.WriteDetail(dir, &result.Detail{Order: order}); err != nil {
			t.Fatalf("WriteDetail: %v", err)
		}
	}
}

func ptr(f float64) *float64 { return &f }

func TestRecordRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ep0")
	writeEpisode(t, dir, map[string]any{
		"env_args.task_name": "t1",
		"cum_reward":         0.5,
		"err_msg":            nil,
		"truncated":          true,
	}, nil)

	rec, err := result.ReadRecord(filepath.Join(dir, "record.json"))
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if v := rec["env_args.task_name"]; v.String() != "t1" {
		t.Errorf("task name = %s", v)
	}
	if f, ok := rec["cum_reward"].Float(); !ok || f != 0.5 {
		t.Errorf("cum_reward = %v", rec["cum_reward"])
	}
	if !rec["err_msg"].IsNull() {
		t.Error("err_msg should round-trip as null")
	}
	if b, ok := rec["truncated"].Bool(); !ok || !b {
		t.Errorf("truncated = %v", rec["truncated"])
	}
}

func TestCollectRecords(t *testing.T) {
	run := t.TempDir()
	writeEpisode(t, filepath.Join(run, "ep0"), map[string]any{"env_args.task_name": "t1", "cum_reward": 1.0}, nil)
	writeEpisode(t, filepath.Join(run, "ep1"), map[string]any{"env_args.task_name": "t2", "cum_reward": 0.0}, nil)
	// a directory with no record file is not an episode
	if err := os.MkdirAll(filepath.Join(run, "scratch"), 0o755); err != nil {
		t.Fatal(err)
	}

	var calls int
	eps, err := result.CollectRecords(run, func(done, total int) { calls++ })
	if err != nil {
		t.Fatalf("CollectRecords: %v", err)
	}
	if len(eps) != 2 {
		t.Fatalf("got %d episodes, want 2", len(eps))
	}
	if calls != 2 {
		t.Errorf("progress called %d times, want 2", calls)
	}
	for _, ep := range eps {
		if ep.Dir == "" {
			t.Error("episode missing its directory")
		}
		if _, ok := ep.Record["exp_date"]; !ok {
			t.Error("exp_date not backfilled from file mtime")
		}
	}
}

func TestCollectRecordsSkipsCorrupt(t *testing.T) {
	run := t.TempDir()
	writeEpisode(t, filepath.Join(run, "ep0"), map[string]any{"env_args.task_name": "t1"}, nil)
	bad := filepath.Join(run, "ep1")
	if err := os.MkdirAll(bad, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, "record.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	eps, err := result.CollectRecords(run, nil)
	if err != nil {
		t.Fatalf("CollectRecords: %v", err)
	}
	if len(eps) != 1 {
		t.Errorf("got %d episodes, want the corrupt one skipped", len(eps))
	}
}

func TestOrders(t *testing.T) {
	run := t.TempDir()
	withOrder := filepath.Join(run, "ep0")
	writeEpisode(t, withOrder, map[string]any{"env_args.task_name": "t1"}, ptr(3))
	without := filepath.Join(run, "ep1")
	writeEpisode(t, without, map[string]any{"env_args.task_name": "t1"}, nil)

	var orders result.Orders
	if v, ok := orders.Order(withOrder); !ok || v != 3 {
		t.Errorf("Order = %v, %v, want 3, true", v, ok)
	}
	if _, ok := orders.Order(without); ok {
		t.Error("missing detail file should resolve to no order")
	}
	if err := result.WriteDetail(without, &result.Detail{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := orders.Order(without); ok {
		t.Error("detail without an order field should resolve to no order")
	}
}

func TestLoadTable(t *testing.T) {
	run := t.TempDir()
	writeEpisode(t, filepath.Join(run, "ep0"), map[string]any{
		"env_args.task_name": "t1", "agent_args.model": "m1", "cum_reward": 1.0,
	}, nil)
	writeEpisode(t, filepath.Join(run, "ep1"), map[string]any{
		"env_args.task_name": "t1", "agent_args.model": "m2", "cum_reward": 0.0,
	}, nil)

	tbl, err := result.LoadTable(run, table.DefaultIndexOptions(), nil)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if tbl == nil || tbl.Len() != 2 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if !tbl.HasCol("exp_dir") {
		t.Error("exp_dir column missing")
	}
	want := []string{"env_args.task_name", "agent_args.model"}
	if len(tbl.Index) != 2 || tbl.Index[0] != want[0] || tbl.Index[1] != want[1] {
		t.Errorf("index = %v, want %v", tbl.Index, want)
	}
}

func TestLoadTableEmpty(t *testing.T) {
	tbl, err := result.LoadTable(t.TempDir(), table.DefaultIndexOptions(), nil)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if tbl != nil {
		t.Error("empty run dir should yield a nil table")
	}
}

func TestMostRecentRunDir(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{
		"2026-08-01_10-00-00_study_a",
		"2026-08-20_09-30-00_study_b",
		"_archive",
		"notes",
	} {
		if err := os.MkdirAll(filepath.Join(base, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	got, err := result.MostRecentRunDir(base, "")
	if err != nil {
		t.Fatalf("MostRecentRunDir: %v", err)
	}
	if filepath.Base(got) != "2026-08-20_09-30-00_study_b" {
		t.Errorf("got %s", got)
	}

	got, err = result.MostRecentRunDir(base, "study_a")
	if err != nil {
		t.Fatalf("MostRecentRunDir with filter: %v", err)
	}
	if filepath.Base(got) != "2026-08-01_10-00-00_study_a" {
		t.Errorf("filtered pick = %s", got)
	}

	if _, err := result.MostRecentRunDir(base, "missing"); err == nil {
		t.Error("expected an error when nothing matches")
	}
}
