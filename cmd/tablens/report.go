package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/pkg/config"
	"github.com/tablens/tablens/pkg/ingest"
	"github.com/tablens/tablens/pkg/report"
	"github.com/tablens/tablens/pkg/telemetry"
	"github.com/tablens/tablens/pkg/tui"
)

var (
	reportOutput    string
	reportTheme     string
	reportThreshold float64
	reportPreview   int
	reportSheet     string
)

var reportCmd = &cobra.Command{
	Use:   "report [input]",
	Short: "Generate an HTML exploration report",
	Long: `Ingest a tabular file, profile every column, and write a standalone
HTML report with overview KPIs, per-variable summaries, Spearman
correlations, and outlier fences.

Examples:
  tablens report sales.csv
  tablens report data.xlsx -o data-report.html --theme dark
  tablens report s3://bucket/exports/orders.parquet`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	cfg := config.Global().Get()

	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output HTML path (default: <input>.html)")
	reportCmd.Flags().StringVar(&reportTheme, "theme", cfg.Report.Theme, "Report theme (light, dark)")
	reportCmd.Flags().Float64Var(&reportThreshold, "threshold", cfg.Report.CorrelationThreshold, "Correlation cutoff for the significant-pair list")
	reportCmd.Flags().IntVar(&reportPreview, "preview", cfg.Report.PreviewRows, "Head and tail rows shown in the overview")
	reportCmd.Flags().StringVar(&reportSheet, "sheet", "", "Worksheet to read from spreadsheet inputs")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := reportOutput
	if output == "" {
		output = defaultOutput(input, ".html")
	}

	ctx, cancel := signalContext()
	defer cancel()

	local, cleanup, err := resolveInput(ctx, input)
	if err != nil {
		return err
	}
	defer cleanup()

	if verbose {
		tui.Header(version)
		tui.Info("Input", input)
		tui.Info("Output", output)
	}

	start := time.Now()

	ctx, span := telemetry.Tracer("tablens/cli").Start(ctx, "report.generate")
	defer span.End()

	var opts []ingest.Option
	if reportSheet != "" {
		opts = append(opts, ingest.WithSheet(reportSheet))
	}
	eng := ingest.New(local, opts...)
	fr, err := eng.Load(ctx)
	if err != nil {
		return err
	}

	rep, err := report.WriteFile(ctx, fr, eng.Metadata(), input, output, report.Options{
		Theme:                reportTheme,
		CorrelationThreshold: reportThreshold,
		PreviewRows:          reportPreview,
	})
	if err != nil {
		return err
	}

	tui.Success(fmt.Sprintf("Report written to %s", output))
	if verbose {
		tui.Info("Rows", fmt.Sprintf("%d", fr.NumRows()))
		tui.Info("Columns", fmt.Sprintf("%d", fr.NumCols()))
		tui.Info("Build", rep.BuildID)
		tui.Info("Elapsed", time.Since(start).Round(time.Millisecond).String())
	}
	return nil
}
