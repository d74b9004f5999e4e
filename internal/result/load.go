package result

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

// LoadTable loads every episode record under runDir into a result table and
// builds its canonical index. An empty result set yields a nil table, not an
// error: there is simply nothing to report on.
func LoadTable(runDir string, opts table.IndexOptions, progress func(done, total int)) (*table.Table, error) {
	episodes, err := CollectRecords(runDir, progress)
	if err != nil {
		return nil, err
	}
	if len(episodes) == 0 {
		return nil, nil
	}

	rows := make([]table.Row, len(episodes))
	for i, ep := range episodes {
		row := make(table.Row, len(ep.Record)+1)
		for k, v := range ep.Record {
			row[k] = v
		}
		row[record.ColExpDir] = record.Str(ep.Dir)
		rows[i] = row
	}
	return table.BuildIndex(table.FromRows(rows), opts)
}

// MostRecentRunDir returns the run directory under baseDir with the latest
// timestamp in its name (layout 2006-01-02_15-04-05 on the first two
// underscore-separated fields). Directories starting with an underscore are
// skipped; contains, when non-empty, filters by substring.
func MostRecentRunDir(baseDir, contains string) (string, error) {
	const layout = "2006-01-02_15-04-05"

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", fmt.Errorf("reading results dir: %w", err)
	}

	var best string
	var bestTime time.Time
	for _, e := range entries {
		if !e.IsDir() || len(e.Name()) == 0 || e.Name()[0] == '_' {
			continue
		}
		if contains != "" && !strings.Contains(e.Name(), contains) {
			continue
		}
		name := e.Name()
		if len(name) < len(layout) {
			continue
		}
		stamp, err := time.Parse(layout, name[:len(layout)])
		if err != nil {
			continue
		}
		if stamp.After(bestTime) {
			bestTime = stamp
			best = filepath.Join(baseDir, name)
		}
	}
	if best == "" {
		return "", fmt.Errorf("no run directories in %s", baseDir)
	}
	return best, nil
}
