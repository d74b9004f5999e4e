package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/report"
)

// WritePivot writes a 2D report for one summary field: row keys down the
// side, column keys across the top, the chosen field in each cell. Cells
// with no data render empty.
func WritePivot(p *report.Pivot, field, format string, w io.Writer) error {
	head := append([]string(nil), p.RowLevels...)
	for _, ck := range p.ColKeys {
		head = append(head, colLabel(ck, field, len(p.ColKeys) > 1))
	}

	rows := make([][]string, len(p.RowKeys))
	for r, rk := range p.RowKeys {
		cells := make([]string, 0, len(head))
		for _, v := range rk {
			cells = append(cells, formatValue(v))
		}
		for c := range p.ColKeys {
			s := p.Cells[r][c]
			if s == nil {
				cells = append(cells, "")
				continue
			}
			v, ok := s.Get(field)
			if !ok {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, formatValue(v))
		}
		rows[r] = cells
	}

	switch format {
	case "markdown":
		fmt.Fprintf(w, "| %s |\n", strings.Join(head, " | "))
		fmt.Fprintf(w, "|%s\n", strings.Repeat("---|", len(head)))
		for _, cells := range rows {
			fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
		}
		return nil
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(upper(head), "\t"))
		fmt.Fprintln(tw, strings.Repeat("-", 80))
		for _, cells := range rows {
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		return tw.Flush()
	}
}

// colLabel names one unstacked column. With a single column key the field
// name alone is enough.
func colLabel(key []record.Value, field string, multi bool) string {
	if !multi && len(key) == 0 {
		return field
	}
	parts := make([]string, len(key))
	for i, v := range key {
		parts[i] = formatValue(v)
	}
	if len(parts) == 0 {
		return field
	}
	return strings.Join(parts, "/") + " " + field
}
