package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/signalnine/scorecard/internal/config"
	"github.com/signalnine/scorecard/internal/result"
	"github.com/signalnine/scorecard/internal/table"
)

// resolveRunDir picks the run directory: the first positional arg when
// given, otherwise the most recent run under the configured results dir.
func resolveRunDir(opts *config.Options, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return result.MostRecentRunDir(opts.Results.Dir, "")
}

// loadIndexed loads the run's episode records into an indexed result table.
// A nil table means the run dir holds no records yet.
func loadIndexed(opts *config.Options, runDir string) (*table.Table, error) {
	progress := func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rLoading results %d/%d", done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
	t, err := result.LoadTable(runDir, opts.IndexOptions(), progress)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", runDir, err)
	}
	return t, nil
}

// newRNG returns a seeded source when the config pins one, for reproducible
// bootstrap uncertainties; zero seed means nondeterministic.
func newRNG(opts *config.Options) *rand.Rand {
	if opts.Bootstrap.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(opts.Bootstrap.Seed))
}
