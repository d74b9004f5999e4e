// Package result reads and writes per-episode experiment results on disk.
// Each episode lives in its own directory under a run dir: record.json holds
// the flat dotted-key record, exp.json the launch detail (declared order and
// task name). The analysis core only ever sees the loaded records; how they
// got on disk is the experiment runner's business.
package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signalnine/scorecard/internal/record"
)

const (
	recordFile = "record.json"
	detailFile = "exp.json"
)

// Episode is one loaded episode result: its directory (the opaque reference
// used to re-fetch detail) and its flat record.
type Episode struct {
	Dir    string
	Record map[string]record.Value
}

// Detail is the lazily-fetched launch information for one episode.
type Detail struct {
	Order    *float64 `json:"order"`
	TaskName string   `json:"task_name"`
}

// WriteRecord stores a flat episode record under dir.
func WriteRecord(dir string, rec map[string]any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating episode dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, recordFile), data, 0o644)
}

// WriteDetail stores the launch detail under dir.
func WriteDetail(dir string, d *Detail) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating episode dir: %w", err)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling detail: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, detailFile), data, 0o644)
}

// ReadRecord loads one record file into tagged values.
func ReadRecord(path string) (map[string]record.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}
	rec := make(map[string]record.Value, len(raw))
	for k, v := range raw {
		rec[k] = record.FromJSON(v)
	}
	return rec, nil
}

// ReadDetail loads the launch detail for one episode directory.
func ReadDetail(dir string) (*Detail, error) {
	data, err := os.ReadFile(filepath.Join(dir, detailFile))
	if err != nil {
		return nil, fmt.Errorf("reading detail: %w", err)
	}
	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing detail: %w", err)
	}
	return &d, nil
}

// CollectRecords walks runDir for record files and loads each one.
// Unreadable records are skipped, matching a runner that is still writing.
// The optional progress callback is invoked after each load.
func CollectRecords(runDir string, progress func(done, total int)) ([]Episode, error) {
	var paths []string
	err := filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Name() == recordFile {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking run dir: %w", err)
	}

	var episodes []Episode
	for i, path := range paths {
		rec, err := ReadRecord(path)
		if err != nil {
			continue
		}
		dir := filepath.Dir(path)
		if _, ok := rec[record.ColExpDate]; !ok {
			if info, err := os.Stat(path); err == nil {
				rec[record.ColExpDate] = record.Str(info.ModTime().UTC().Format(time.RFC3339))
			}
		}
		episodes = append(episodes, Episode{Dir: dir, Record: rec})
		if progress != nil {
			progress(i+1, len(paths))
		}
	}
	return episodes, nil
}

// Orders resolves declared launch order from episode directories. It
// implements the order-lookup capability the ablation report needs.
type Orders struct{}

// Order returns the declared launch order for one episode directory, false
// when the detail file is missing or carries no order.
func (Orders) Order(dir string) (float64, bool) {
	d, err := ReadDetail(dir)
	if err != nil || d.Order == nil {
		return 0, false
	}
	return *d.Order, true
}
