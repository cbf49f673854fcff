package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/pkg/ingest"
	"github.com/tablens/tablens/pkg/profile"
	"github.com/tablens/tablens/pkg/tui"
)

var (
	inspectJSON  bool
	inspectSheet string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [input]",
	Short: "Show detection results and the column catalog",
	Long: `Ingest a file and print what was detected (encoding, delimiter, skipped
rows) along with dataset KPIs and a per-column profile.

Examples:
  tablens inspect sales.csv
  tablens inspect data.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Emit machine-readable JSON")
	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "Worksheet to read from spreadsheet inputs")

	rootCmd.AddCommand(inspectCmd)
}

// inspection is the JSON shape of the inspect command output.
type inspection struct {
	File      string             `json:"file"`
	Metadata  ingest.Metadata    `json:"metadata"`
	Overview  profile.Overview   `json:"overview"`
	Variables []profile.Variable `json:"variables"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	input := args[0]

	ctx, cancel := signalContext()
	defer cancel()

	local, cleanup, err := resolveInput(ctx, input)
	if err != nil {
		return err
	}
	defer cleanup()

	var opts []ingest.Option
	if inspectSheet != "" {
		opts = append(opts, ingest.WithSheet(inspectSheet))
	}
	eng := ingest.New(local, opts...)
	fr, err := eng.Load(ctx)
	if err != nil {
		return err
	}

	vars := profile.Catalog(fr)
	overview := profile.Summarize(fr, vars)

	if inspectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(inspection{
			File:      input,
			Metadata:  eng.Metadata(),
			Overview:  overview,
			Variables: vars,
		})
	}

	meta := eng.Metadata()
	tui.Title(input)
	tui.Info("Encoding", meta.Encoding)
	if meta.Delimiter != "" {
		tui.Info("Delimiter", printableDelimiter(meta.Delimiter))
	}
	if meta.SkippedRows > 0 {
		tui.Info("Skipped rows", fmt.Sprintf("%d", meta.SkippedRows))
	}
	tui.Rule()
	tui.Info("Rows", fmt.Sprintf("%d", overview.Rows))
	tui.Info("Columns", fmt.Sprintf("%d", overview.Columns))
	tui.Info("Missing", fmt.Sprintf("%.1f%%", overview.MissingPct))
	tui.Info("Duplicates", fmt.Sprintf("%.1f%%", overview.DuplicatePct))
	tui.Info("Memory", tui.FormatBytes(overview.MemoryBytes))
	tui.Info("Quality", string(overview.Quality))
	tui.Rule()

	fmt.Printf("%-24s %-12s %8s %8s %8s %s\n", "Column", "Kind", "Nulls", "Unique", "Null%", "Quality")
	fmt.Printf("%-24s %-12s %8s %8s %8s %s\n",
		strings.Repeat("-", 24), strings.Repeat("-", 12),
		strings.Repeat("-", 8), strings.Repeat("-", 8), strings.Repeat("-", 8),
		strings.Repeat("-", 7))
	for _, v := range vars {
		fmt.Printf("%-24s %-12s %8d %8d %7.1f%% %s\n",
			v.Name, v.KindName, v.Nulls, v.Unique, v.NullPct, v.Quality)
	}
	return nil
}

func printableDelimiter(d string) string {
	switch d {
	case "\t":
		return "\\t (tab)"
	case " ":
		return "space"
	default:
		return d
	}
}
