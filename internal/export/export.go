// Package export renders reports for terminals, markdown, JSON and TSV, and
// copies TSV to the clipboard for pasting into spreadsheets.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/report"
)

// WriteReport writes a 1D report in the given format: table (default),
// markdown, json or tsv.
func WriteReport(rep *report.Report, format string, w io.Writer) error {
	switch format {
	case "markdown":
		return writeMarkdown(rep, w)
	case "json":
		return writeJSON(rep, w)
	case "tsv":
		_, err := io.WriteString(w, ToTSV(rep))
		return err
	default:
		return writeTable(rep, w)
	}
}

func header(rep *report.Report) []string {
	cols := append([]string(nil), rep.Levels...)
	seen := map[string]bool{}
	for _, s := range rep.Rows {
		for _, name := range s.Names {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, name)
			}
		}
	}
	return cols
}

func rowCells(rep *report.Report, i int, cols []string) []string {
	cells := make([]string, 0, len(cols))
	for _, key := range rep.Keys[i] {
		cells = append(cells, formatValue(key))
	}
	for _, name := range cols[len(rep.Keys[i]):] {
		v, ok := rep.Rows[i].Get(name)
		if !ok {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, formatValue(v))
	}
	return cells
}

func writeTable(rep *report.Report, w io.Writer) error {
	cols := header(rep)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(upper(cols), "\t"))
	fmt.Fprintln(tw, strings.Repeat("-", 80))
	for i := range rep.Rows {
		fmt.Fprintln(tw, strings.Join(rowCells(rep, i, cols), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(rep *report.Report, w io.Writer) error {
	cols := header(rep)
	fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	fmt.Fprintf(w, "|%s\n", strings.Repeat("---|", len(cols)))
	for i := range rep.Rows {
		fmt.Fprintf(w, "| %s |\n", strings.Join(rowCells(rep, i, cols), " | "))
	}
	return nil
}

func writeJSON(rep *report.Report, w io.Writer) error {
	cols := header(rep)
	var out []map[string]any
	for i := range rep.Rows {
		row := map[string]any{}
		for j, cell := range rowCells(rep, i, cols) {
			row[cols[j]] = cell
		}
		out = append(out, row)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ToTSV renders the report as a tab-separated blob, one header line then
// one line per row.
func ToTSV(rep *report.Report) string {
	cols := header(rep)
	var b strings.Builder
	b.WriteString(strings.Join(cols, "\t"))
	b.WriteByte('\n')
	for i := range rep.Rows {
		b.WriteString(strings.Join(rowCells(rep, i, cols), "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// CopyTSV copies the report to the system clipboard as TSV. Clipboard
// support is best effort: when unavailable it prints a notice to errOut and
// never fails the caller.
func CopyTSV(rep *report.Report, errOut io.Writer) {
	if err := clipboard.WriteAll(ToTSV(rep)); err != nil {
		fmt.Fprintf(errOut, "clipboard unavailable, not copying report: %v\n", err)
	}
}

// formatValue renders one cell. Booleans become check marks so flag columns
// stay narrow.
func formatValue(v record.Value) string {
	if b, ok := v.Bool(); ok {
		if b {
			return "✓"
		}
		return "-"
	}
	return v.String()
}

func upper(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToUpper(ShrinkHeader(c))
	}
	return out
}

// ShrinkHeader shortens a dotted column name to its last segment for
// terminal display; full names stay in markdown/TSV output.
func ShrinkHeader(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
