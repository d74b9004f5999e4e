package config_test

import (
	"path/filepath"
	"testing"

	"github.com/signalnine/scorecard/internal/config"
)

func TestDefault(t *testing.T) {
	opts := config.Default()
	if opts.Bootstrap.Resamples != 100 {
		t.Errorf("resamples = %d, want 100", opts.Bootstrap.Resamples)
	}
	if opts.Bootstrap.Prior != 0.5 {
		t.Errorf("prior = %v, want 0.5", opts.Bootstrap.Prior)
	}
	if opts.Index.TaskField != "env_args.task_name" {
		t.Errorf("task field = %s", opts.Index.TaskField)
	}
	if opts.Report.RoundDigits != 3 {
		t.Errorf("round digits = %d, want 3", opts.Report.RoundDigits)
	}
}

func TestLoad(t *testing.T) {
	opts, err := config.Load(filepath.Join("testdata", "valid.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(opts.Index.IncludePatterns) != 2 {
		t.Errorf("include patterns = %v", opts.Index.IncludePatterns)
	}
	if !opts.Index.RequireVariable {
		t.Error("require_variable not loaded")
	}
	if opts.Bootstrap.Resamples != 500 || opts.Bootstrap.Seed != 42 {
		t.Errorf("bootstrap = %+v", opts.Bootstrap)
	}
	if opts.Report.RoundDigits != 2 {
		t.Errorf("round digits = %d, want 2", opts.Report.RoundDigits)
	}
	// fields absent from the file keep their defaults
	if opts.Bootstrap.CoverageThreshold != 0.7 {
		t.Errorf("coverage threshold = %v, want the default 0.7", opts.Bootstrap.CoverageThreshold)
	}
	if opts.Report.MaxStackTraces != 10 {
		t.Errorf("max stack traces = %d, want the default 10", opts.Report.MaxStackTraces)
	}
	if opts.Categories["webarena.login"] != "auth" {
		t.Errorf("categories = %v", opts.Categories)
	}
	if opts.Results.Dir != "/data/results" {
		t.Errorf("results dir = %s", opts.Results.Dir)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	for _, name := range []string{"bad_pattern.yaml", "bad_resamples.yaml"} {
		if _, err := config.Load(filepath.Join("testdata", name)); err == nil {
			t.Errorf("%s: expected a validation error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join("testdata", "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	opts, err := config.LoadOrDefault(filepath.Join("testdata", "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if opts.Bootstrap.Resamples != 100 {
		t.Error("missing file should fall back to defaults")
	}

	opts, err = config.LoadOrDefault(filepath.Join("testdata", "valid.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if opts.Bootstrap.Resamples != 500 {
		t.Error("existing file should be loaded")
	}
}

func TestIndexOptions(t *testing.T) {
	opts := config.Default()
	io := opts.IndexOptions()
	if io.TaskField != opts.Index.TaskField {
		t.Error("task field not carried over")
	}
	if len(io.Include) != len(opts.Index.IncludePatterns) {
		t.Error("include patterns not carried over")
	}
}
