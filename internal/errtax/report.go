package errtax

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

var (
	tokenCountRe = regexp.MustCompile(`your messages resulted in \d+ tokens`)
	uncaughtRe   = regexp.MustCompile(`(Exception uncaught by agent or environment in task\s)(\S+)`)
)

// NormalizeMessage rewrites volatile substrings of an error message (token
// counts, task names embedded in uncaught-exception messages) so that
// structurally identical errors group under one key.
func NormalizeMessage(msg string) string {
	msg = tokenCountRe.ReplaceAllString(msg, "your messages resulted in x tokens")
	msg = uncaughtRe.ReplaceAllString(msg, "${1}<task_name>.")
	return msg
}

type errGroup struct {
	key  string
	rows []table.Row
}

// groupByKey buckets errored rows by a key function, preserving nothing of
// the input order: groups come back count descending, ties by key.
func groupByKey(t *table.Table, keyOf func(row table.Row) (string, bool)) []errGroup {
	at := map[string]int{}
	var groups []errGroup
	for i := 0; i < t.Len(); i++ {
		key, ok := keyOf(t.Rows[i])
		if !ok {
			continue
		}
		idx, seen := at[key]
		if !seen {
			idx = len(groups)
			at[key] = idx
			groups = append(groups, errGroup{key: key})
		}
		groups[idx].rows = append(groups[idx].rows, t.Rows[i])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].rows) != len(groups[j].rows) {
			return len(groups[i].rows) > len(groups[j].rows)
		}
		return groups[i].key < groups[j].key
	})
	return groups
}

// ErrorReport renders errors grouped by normalized message: per group the
// occurrence count, which tasks produced it (count descending), and up to
// maxStackTraces full stack traces with task name and result directory.
func ErrorReport(t *table.Table, maxStackTraces int) string {
	groups := groupByKey(t, func(row table.Row) (string, bool) {
		msg, ok := errMsgOf(row)
		if !ok {
			return "", false
		}
		return NormalizeMessage(msg), true
	})

	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintln(&b, "-------------------")
		fmt.Fprintf(&b, "%dx : %s\n\n", len(g.rows), g.key)
		for _, tc := range taskCounts(g.rows) {
			fmt.Fprintf(&b, "%2d %s\n", tc.Count, tc.Task)
		}
		fmt.Fprintf(&b, "\nShowing Max %d stack traces:\n\n", maxStackTraces)
		for i, row := range g.rows {
			if i >= maxStackTraces {
				break
			}
			writeTrace(&b, row)
		}
	}
	return b.String()
}

// DetailedReport renders errors grouped by category, then by raw message
// within the category: per category the total count and up to
// maxStackTraces example traces (one per distinct message).
func DetailedReport(t *table.Table, c Classifier, maxStackTraces int) string {
	groups := groupByKey(t, func(row table.Row) (string, bool) {
		return c.Categorize(row)
	})

	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintln(&b, "\n-------------------")
		fmt.Fprintf(&b, "Category: %s\n", g.key)
		fmt.Fprintln(&b, "-------------------")
		fmt.Fprintf(&b, "\nTotal number of errors: %d\n\n", len(g.rows))

		sub := &table.Table{Cols: t.Cols, Rows: g.rows}
		byMsg := groupByKey(sub, errMsgOf)
		for i, mg := range byMsg {
			if i >= maxStackTraces {
				break
			}
			fmt.Fprintln(&b, "-------------------")
			fmt.Fprintf(&b, "%dx : %s\n\n", len(mg.rows), mg.key)
			writeTrace(&b, mg.rows[0])
		}
	}
	return b.String()
}

type taskCount struct {
	Task  string
	Count int
}

func taskCounts(rows []table.Row) []taskCount {
	at := map[string]int{}
	var out []taskCount
	for _, row := range rows {
		task := row[record.ColTask].String()
		idx, seen := at[task]
		if !seen {
			idx = len(out)
			at[task] = idx
			out = append(out, taskCount{Task: task})
		}
		out[idx].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Task < out[j].Task
	})
	return out
}

func writeTrace(w io.Writer, row table.Row) {
	fmt.Fprintf(w, "Task Name: %s\n\n", row[record.ColTask])
	fmt.Fprintf(w, "exp_dir: %s\n\n", row[record.ColExpDir])
	fmt.Fprintf(w, "Stack Trace: \n %s\n\n\n", stackOf(row))
}
