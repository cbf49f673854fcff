package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/pkg/export"
	"github.com/tablens/tablens/pkg/ingest"
	"github.com/tablens/tablens/pkg/tui"
)

var (
	convertOutput    string
	convertDelimiter string
	convertSheet     string
	convertOutSheet  string
)

var convertCmd = &cobra.Command{
	Use:   "convert [input]",
	Short: "Convert a tabular file to another format",
	Long: `Ingest a file and write it back out in the format named by the output
extension (.csv, .txt, .json, .xlsx, .parquet).

Examples:
  tablens convert events.csv -o events.parquet
  tablens convert data.xlsx -o data.csv --delimiter ";"
  tablens convert s3://bucket/raw/orders.json -o orders.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file path (required)")
	convertCmd.Flags().StringVar(&convertDelimiter, "delimiter", ",", "Field delimiter for delimited text output")
	convertCmd.Flags().StringVar(&convertSheet, "sheet", "", "Worksheet to read from spreadsheet inputs")
	convertCmd.Flags().StringVar(&convertOutSheet, "out-sheet", "", "Worksheet name for spreadsheet output")
	convertCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	if len(convertDelimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", convertDelimiter)
	}

	ctx, cancel := signalContext()
	defer cancel()

	local, cleanup, err := resolveInput(ctx, input)
	if err != nil {
		return err
	}
	defer cleanup()

	start := time.Now()

	var opts []ingest.Option
	if convertSheet != "" {
		opts = append(opts, ingest.WithSheet(convertSheet))
	}
	eng := ingest.New(local, opts...)
	fr, err := eng.Load(ctx)
	if err != nil {
		return err
	}

	exportOpts := export.Options{
		Delimiter: convertDelimiter[0],
		Sheet:     convertOutSheet,
	}
	if verbose {
		bar := tui.RowProgress(fr.NumRows(), "writing")
		exportOpts.OnRows = func(n int) { bar.Set(n) }
	}

	if err := export.Write(ctx, fr, convertOutput, exportOpts); err != nil {
		return err
	}

	stat, _ := os.Stat(convertOutput)
	var size int64
	if stat != nil {
		size = stat.Size()
	}

	tui.Success(fmt.Sprintf("Wrote %d rows to %s", fr.NumRows(), convertOutput))
	if verbose {
		tui.Info("Size", tui.FormatBytes(size))
		tui.Info("Elapsed", time.Since(start).Round(time.Millisecond).String())
	}
	return nil
}
