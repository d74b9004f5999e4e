package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

// Options carries every knob the reporting entry points need. There is no
// ambient state: callers pass one of these explicitly.
type Options struct {
	Index      Index             `yaml:"index"`
	Bootstrap  Bootstrap         `yaml:"bootstrap"`
	Report     Report            `yaml:"report"`
	Results    Results           `yaml:"results"`
	Categories map[string]string `yaml:"task_categories"`
}

type Index struct {
	IncludePatterns []string `yaml:"include_patterns"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	TaskField       string   `yaml:"task_field"`
	RequireVariable bool     `yaml:"require_variable"`
}

type Bootstrap struct {
	Resamples         int     `yaml:"resamples"`
	Prior             float64 `yaml:"prior"`
	CoverageThreshold float64 `yaml:"coverage_threshold"`
	Seed              int64   `yaml:"seed"`
}

type Report struct {
	RoundDigits     int `yaml:"round_digits"`
	FlagRoundDigits int `yaml:"flag_round_digits"`
	MaxStackTraces  int `yaml:"max_stack_traces"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

// Default returns the reporting defaults: agent-namespace index minus model
// URLs, 100 resamples with a 0.5 prior at 0.7 coverage, 3-digit rounding.
func Default() *Options {
	return &Options{
		Index: Index{
			IncludePatterns: []string{record.AgentPrefix + "*"},
			ExcludePatterns: []string{"*model_url*"},
			TaskField:       record.ColTask,
		},
		Bootstrap: Bootstrap{
			Resamples:         100,
			Prior:             0.5,
			CoverageThreshold: 0.7,
		},
		Report: Report{
			RoundDigits:     3,
			FlagRoundDigits: 2,
			MaxStackTraces:  10,
		},
		Results: Results{Dir: "./results"},
	}
}

// Load reads options from a YAML file. Fields left out keep their defaults.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(opts); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return opts, nil
}

// LoadOrDefault loads the file when it exists and falls back to defaults
// when it does not, so the CLI works without a config file.
func LoadOrDefault(path string) (*Options, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func validate(opts *Options) error {
	patterns := append(append([]string{}, opts.Index.IncludePatterns...), opts.Index.ExcludePatterns...)
	for _, p := range patterns {
		if _, err := path.Match(p, "probe"); err != nil {
			return fmt.Errorf("bad index pattern %q: %w", p, err)
		}
	}
	if opts.Index.TaskField == "" {
		return fmt.Errorf("index task_field is required")
	}
	if opts.Bootstrap.Resamples < 1 {
		return fmt.Errorf("bootstrap resamples must be at least 1")
	}
	if opts.Bootstrap.CoverageThreshold < 0 || opts.Bootstrap.CoverageThreshold > 1 {
		return fmt.Errorf("bootstrap coverage_threshold must be in [0, 1]")
	}
	if opts.Report.RoundDigits < 0 {
		return fmt.Errorf("report round_digits must not be negative")
	}
	return nil
}

// IndexOptions adapts the config to the table index builder.
func (o *Options) IndexOptions() table.IndexOptions {
	return table.IndexOptions{
		Include:         o.Index.IncludePatterns,
		Exclude:         o.Index.ExcludePatterns,
		TaskField:       o.Index.TaskField,
		RequireVariable: o.Index.RequireVariable,
	}
}
