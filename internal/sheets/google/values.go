package google

import (
	"fmt"
	"strings"
	"time"

	"payoutrecon/internal/core"
	"payoutrecon/internal/report"
)

// sheetTitle returns "<YYYY-MM> <base>" unless base already starts with the
// period.
func sheetTitle(base string, p core.Period) string {
	base = strings.TrimSpace(base)
	prefix := p.String()
	if strings.HasPrefix(base, prefix) {
		return base
	}
	return fmt.Sprintf("%s %s", prefix, base)
}

// quoteSheet quotes a tab name for A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// buildValues lays out the report table followed by a blank row and the run
// metadata.
func buildValues(r *core.Report) [][]interface{} {
	rows := report.Rows(r)
	out := make([][]interface{}, 0, len(rows)+4)
	out = append(out, toRow(report.Header))
	for _, row := range rows {
		out = append(out, toRow(row))
	}
	out = append(out,
		[]interface{}{},
		[]interface{}{"Run ID", r.RunID},
		[]interface{}{"Generated at", r.GeneratedAt.UTC().Format(time.RFC3339)},
	)
	return out
}

func toRow(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
