// Package report renders and persists scan output.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"example.com/stock-pattern-scanner/internal/pattern"
	"example.com/stock-pattern-scanner/internal/scan"
)

// PrintResults renders the merged result list as a table.
func PrintResults(w io.Writer, results []scan.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No patterns found.")
		return
	}

	fmt.Fprintf(w, "Found %d pattern occurrences:\n\n", len(results))

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Symbol", "Pattern", "Date", "Conf", "Strength", "Close", "Days Ago", "Recommendation"}),
	)
	for _, r := range results {
		table.Append([]string{
			r.Symbol,
			string(r.Pattern),
			r.Date,
			fmt.Sprintf("%d", r.Confidence),
			fmt.Sprintf("%+d", r.Strength),
			fmt.Sprintf("$%.2f", r.Close),
			fmt.Sprintf("%d", r.DaysAgo),
			r.Recommendation,
		})
	}
	table.Render()
}

// PrintSummary renders scan-level statistics.
func PrintSummary(w io.Writer, s scan.Summary) {
	fmt.Fprintf(w, "\n--- Scan Summary ---\n")
	fmt.Fprintf(w, "Total patterns:   %d\n", s.TotalPatterns)
	fmt.Fprintf(w, "High confidence:  %d (>= 70)\n", s.ByConfidence.High)
	fmt.Fprintf(w, "Medium:           %d (50-69)\n", s.ByConfidence.Medium)
	fmt.Fprintf(w, "Low:              %d (< 50)\n", s.ByConfidence.Low)
	if s.TotalPatterns > 0 {
		fmt.Fprintf(w, "Avg confidence:   %.1f\n", s.AvgConfidence)
		fmt.Fprintf(w, "Avg close price:  $%.2f\n", s.AvgPrice)
		fmt.Fprintf(w, "Symbols flagged:  %d\n", len(s.Symbols))
	}

	if len(s.Breakdown) == 0 {
		return
	}

	ids := make([]string, 0, len(s.Breakdown))
	for id := range s.Breakdown {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Pattern", "Found", "Passed", "Avg Conf"}),
	)
	for _, id := range ids {
		b := s.Breakdown[pattern.ID(id)]
		table.Append([]string{
			id,
			fmt.Sprintf("%d", b.Found),
			fmt.Sprintf("%d", b.Passed),
			fmt.Sprintf("%.1f", b.AvgConfidence),
		})
	}
	fmt.Fprintln(w)
	table.Render()
}
