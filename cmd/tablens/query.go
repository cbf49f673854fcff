package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/pkg/export"
	"github.com/tablens/tablens/pkg/frame"
	"github.com/tablens/tablens/pkg/ingest"
	"github.com/tablens/tablens/pkg/query"
	"github.com/tablens/tablens/pkg/tui"
)

var (
	queryOutput string
	queryLimit  int
	querySheet  string
)

var queryCmd = &cobra.Command{
	Use:   "query [input] [sql]",
	Short: "Run SQL against a tabular file",
	Long: `Ingest a file, stage it as the "data" table in an embedded database, and
run a SQL statement against it. Results print to the terminal or, with
--output, export to any supported format.

Examples:
  tablens query sales.csv "SELECT region, SUM(amount) FROM data GROUP BY region"
  tablens query events.parquet "SELECT * FROM data WHERE status = 'failed'" -o failed.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "", "Export results to this path instead of printing")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 20, "Maximum rows printed to the terminal")
	queryCmd.Flags().StringVar(&querySheet, "sheet", "", "Worksheet to read from spreadsheet inputs")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	input, statement := args[0], args[1]

	ctx, cancel := signalContext()
	defer cancel()

	local, cleanup, err := resolveInput(ctx, input)
	if err != nil {
		return err
	}
	defer cleanup()

	var opts []ingest.Option
	if querySheet != "" {
		opts = append(opts, ingest.WithSheet(querySheet))
	}
	fr, err := ingest.New(local, opts...).Load(ctx)
	if err != nil {
		return err
	}

	result, err := query.Query(ctx, fr, statement)
	if err != nil {
		return err
	}

	if queryOutput != "" {
		if err := export.Write(ctx, result, queryOutput, export.Options{}); err != nil {
			return err
		}
		tui.Success(fmt.Sprintf("Wrote %d rows to %s", result.NumRows(), queryOutput))
		return nil
	}

	printFrame(result, queryLimit)
	if result.NumRows() > queryLimit {
		tui.Muted(fmt.Sprintf("(%d of %d rows shown, use --limit to see more)", queryLimit, result.NumRows()))
	}
	return nil
}

// printFrame renders up to limit rows as a fixed-width text table.
func printFrame(fr *frame.Frame, limit int) {
	names := fr.Names()
	rows := fr.Head(limit)

	widths := make([]int, len(names))
	for i, name := range names {
		widths[i] = len(name)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(names)
	seps := make([]string, len(names))
	for i := range seps {
		seps[i] = strings.Repeat("-", widths[i])
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}
