package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/pkg/config"
	"github.com/tablens/tablens/pkg/ingest"
	"github.com/tablens/tablens/pkg/report"
	"github.com/tablens/tablens/pkg/tui"
	"github.com/tablens/tablens/pkg/watch"
)

var (
	watchOutput   string
	watchTheme    string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [input]",
	Short: "Regenerate the HTML report whenever the file changes",
	Long: `Generate a report, then keep watching the input file and rewrite the
report after every change. Rapid successive writes coalesce into one
rebuild.

Examples:
  tablens watch sales.csv
  tablens watch data.csv -o live.html --debounce 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	cfg := config.Global().Get()

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output HTML path (default: <input>.html)")
	watchCmd.Flags().StringVar(&watchTheme, "theme", cfg.Report.Theme, "Report theme (light, dark)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a rebuild")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := watchOutput
	if output == "" {
		output = defaultOutput(input, ".html")
	}

	ctx, cancel := signalContext()
	defer cancel()

	cfg := config.Global().Get()
	opts := report.Options{
		Theme:                watchTheme,
		CorrelationThreshold: cfg.Report.CorrelationThreshold,
		PreviewRows:          cfg.Report.PreviewRows,
	}

	rebuild := func(path string) error {
		start := time.Now()
		eng := ingest.New(path)
		fr, err := eng.Load(ctx)
		if err != nil {
			return err
		}
		if _, err := report.WriteFile(ctx, fr, eng.Metadata(), input, output, opts); err != nil {
			return err
		}
		tui.Success(fmt.Sprintf("Rebuilt %s (%d rows, %s)",
			output, fr.NumRows(), time.Since(start).Round(time.Millisecond)))
		return nil
	}

	if err := rebuild(input); err != nil {
		return err
	}

	watcher, err := watch.New(input, watchDebounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	watcher.OnChange = rebuild
	watcher.OnError = func(err error) {
		tui.Error(err.Error())
	}

	tui.Muted(fmt.Sprintf("Watching %s, press Ctrl+C to stop", input))
	return watcher.Run(ctx)
}
