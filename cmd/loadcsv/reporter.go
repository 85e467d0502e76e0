package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/loadcsv/internal/models"
)

// printSummaryTable writes one line per converted test and a totals line.
func printSummaryTable(w io.Writer, s *models.RunSummary) {
	const (
		hdrBranch = "Branch"
		hdrTest   = "Test"
		hdrRows   = "Rows"
		hdrOutput = "Output"
		noTests   = "(no tests)"
	)

	branchWidth := runewidth.StringWidth(hdrBranch)
	testWidth := runewidth.StringWidth(hdrTest)
	rowsWidth := len(hdrRows)
	for _, b := range s.Branches {
		branchWidth = max(branchWidth, runewidth.StringWidth(b.Name))
		if len(b.Tests) == 0 {
			testWidth = max(testWidth, runewidth.StringWidth(noTests))
		}
		for _, t := range b.Tests {
			testWidth = max(testWidth, runewidth.StringWidth(t.Name))
			rowsWidth = max(rowsWidth, len(strconv.Itoa(t.Rows)))
		}
	}

	fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
		padRight(hdrBranch, branchWidth),
		padRight(hdrTest, testWidth),
		padLeft(hdrRows, rowsWidth),
		hdrOutput)

	for _, b := range s.Branches {
		if len(b.Tests) == 0 {
			fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
				padRight(b.Name, branchWidth),
				padRight(noTests, testWidth),
				padLeft("-", rowsWidth),
				"-")
			continue
		}
		for _, t := range b.Tests {
			output := t.Output
			if output == "" {
				output = "-"
			}
			fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
				padRight(b.Name, branchWidth),
				padRight(t.Name, testWidth),
				padLeft(strconv.Itoa(t.Rows), rowsWidth),
				output)
		}
	}

	fmt.Fprintf(w, "\n%d branch(es), %d test(s), %d row(s)", len(s.Branches), s.TotalTests, s.TotalRows) //nolint:errcheck
	if s.DryRun {
		fmt.Fprint(w, " (validated only, nothing written)") //nolint:errcheck
	}
	fmt.Fprintln(w) //nolint:errcheck
}

func printSummaryJSON(w io.Writer, s *models.RunSummary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	fmt.Fprintln(w, string(data)) //nolint:errcheck
	return nil
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// padLeft right-aligns s within width display columns.
func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", width-sw) + s
}
