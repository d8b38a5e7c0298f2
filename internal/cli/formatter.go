package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dupes/internal/dupes"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// Report is the JSON output document: all collected groups plus the final
// run statistics.
type Report struct {
	Groups []dupes.Group `json:"groups"`
	Stats  *dupes.Stats  `json:"stats"`
}

// PrintGroup renders one duplicate group as a small box-drawing tree:
//
//	┌ 1024 bytes
//	├ /a/file.bin
//	└ /b/copy.bin
//
// Groups after the first are separated by a blank line.
func PrintGroup(writer io.Writer, group dupes.Group, first bool) {
	if !first {
		fmt.Fprintln(writer)
	}

	fmt.Fprintf(writer, "┌ %d bytes\n", group.Size)

	for i, file := range group.Files {
		glyph := "├"
		if i == len(group.Files)-1 {
			glyph = "└"
		}

		fmt.Fprintf(writer, "%s %s\n", glyph, file.Path)
	}
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintSummary outputs run statistics in human-readable table format.
func PrintSummary(stats *dupes.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Files seen:\t%d\n", stats.FilesSeen)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(stats.TotalBytes)), stats.TotalBytes) //nolint:gosec // Bytes is always positive
	fmt.Fprintf(w, "Skipped by min-size:\t%d\n", stats.SkippedMinSize)
	fmt.Fprintf(w, "Candidates hashed:\t%d\n", stats.CandidatesHashed)
	fmt.Fprintf(w, "Duplicate files:\t%d\n", stats.DuplicateFiles)
	fmt.Fprintf(w, "Duplicate groups:\t%d\n", stats.DuplicateGroups)
	fmt.Fprintf(w, "Wasted:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(stats.WastedBytes)), stats.WastedBytes) //nolint:gosec // Bytes is always positive

	if stats.ErrorCount > 0 {
		fmt.Fprintf(w, "\nErrors:\t%d\n", stats.ErrorCount)

		for _, diag := range stats.Diagnostics {
			fmt.Fprintf(w, "  [%s] %s:\t%s\n", diag.Stage, diag.Path, diag.Err)
		}
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
