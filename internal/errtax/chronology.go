package errtax

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

// Run is a streak of consecutive episodes (in experiment time) failing with
// the same error category.
type Run struct {
	Category string
	Count    int
}

// ChronologicalRuns sorts errored episodes by experiment timestamp and
// merges consecutive episodes with the same category into runs. A burst of
// one category showing up as a long run usually points at an infrastructure
// incident rather than an agent problem.
func ChronologicalRuns(t *table.Table, c Classifier) []Run {
	rows := append([]table.Row(nil), t.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		return expTime(rows[i]).Before(expTime(rows[j]))
	})

	var runs []Run
	for _, row := range rows {
		cat, ok := c.Categorize(row)
		if !ok {
			continue
		}
		if len(runs) > 0 && runs[len(runs)-1].Category == cat {
			runs[len(runs)-1].Count++
			continue
		}
		runs = append(runs, Run{Category: cat, Count: 1})
	}
	return runs
}

// PrintChronological renders runs one per line, category left-justified and
// count right-justified, matching the grouped report style.
func PrintChronological(w io.Writer, runs []Run) {
	for _, run := range runs {
		fmt.Fprintf(w, "%s : %s times\n",
			padRight(run.Category, 40), padLeft(fmt.Sprint(run.Count), 5))
	}
}

// expTime parses the experiment timestamp, RFC3339 first, then the run-dir
// layout. Unparseable stamps sort first.
func expTime(row table.Row) time.Time {
	v, ok := row[record.ColExpDate]
	if !ok || v.IsNull() {
		return time.Time{}
	}
	s := v.String()
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02_15-04-05", s); err == nil {
		return ts
	}
	return time.Time{}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}
