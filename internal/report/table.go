// Package report renders a reconciled report for people: an ASCII table on
// stdout and the same rows for spreadsheet export.
package report

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"payoutrecon/internal/core"
)

// Header is the column order shared by every rendering.
var Header = []string{"Product name", "Product ID", "Revenue"}

// Rows returns one row per product plus the closing Total row, revenue in
// major units with two decimals.
func Rows(r *core.Report) [][]string {
	rows := make([][]string, 0, len(r.Rows)+1)
	for _, rev := range r.Rows {
		rows = append(rows, []string{rev.Name, rev.ProductID, rev.Amount.String()})
	}
	return append(rows, []string{"Total", "-", r.Total.String()})
}

// WriteTable renders r to w.
func WriteTable(w io.Writer, r *core.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})
	table.AppendBulk(Rows(r))
	table.Render()
}
