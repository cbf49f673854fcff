// Tablens - Tabular file inspector and EDA report generator
// Ingests CSV, TXT, XLSX, XLS, JSON, and Parquet files of unknown
// encoding and delimiter, profiles them, and renders an HTML report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/internal/logging"
	"github.com/tablens/tablens/pkg/config"
	"github.com/tablens/tablens/pkg/storage/s3"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tablens",
	Short: "Tablens - Inspect and profile tabular data files",
	Long: `Tablens ingests tabular files of unknown format, encoding, and delimiter
(CSV, TXT, XLSX, XLS, JSON, Parquet), normalizes them into a typed table,
and renders an HTML exploration report.

Inputs may be local paths or s3:// URLs.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Global().Get()
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logging.Setup(level, cfg.Logging.Format)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// resolveInput downloads s3:// inputs to a temp file and returns a local
// path plus a cleanup func. Local paths pass through unchanged.
func resolveInput(ctx context.Context, raw string) (string, func(), error) {
	if !s3.IsURL(raw) {
		return raw, func() {}, nil
	}

	client, err := s3.NewClient(ctx, s3.DefaultConfig())
	if err != nil {
		return "", nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	local, err := client.Fetch(ctx, raw)
	if err != nil {
		return "", nil, err
	}
	return local, func() { os.Remove(local) }, nil
}

// defaultOutput derives an output path from the input name and extension.
func defaultOutput(input, ext string) string {
	base := filepath.Base(input)
	if s3.IsURL(input) {
		if _, key, err := s3.ParseURL(input); err == nil {
			base = filepath.Base(key)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
