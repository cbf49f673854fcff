// Package tui provides styled terminal output for the CLI.
// Simple streaming output - no interactive widgets, just clean styles
// and progress bars.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

// Colors (Swiss minimal)
var (
	accent  = lipgloss.Color("#FF0000")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	accentStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
)

// Header prints the tool banner.
func Header(version string) {
	fmt.Println()
	fmt.Println(titleStyle.Render("  TABLENS") + mutedStyle.Render(" v"+version))
	fmt.Println(mutedStyle.Render("  Exploratory data analysis for tabular files"))
	fmt.Println()
}

// Title prints a bold line.
func Title(text string) {
	fmt.Println(titleStyle.Render(text))
}

// Success prints a checkmarked line.
func Success(text string) {
	fmt.Println(successStyle.Render("  ✓ " + text))
}

// Error prints an error line to stderr.
func Error(text string) {
	fmt.Fprintln(os.Stderr, accentStyle.Render("  ✗ "+text))
}

// Info prints a muted key/value line.
func Info(key, value string) {
	fmt.Printf("  %s %s\n", mutedStyle.Render(key+":"), titleStyle.Render(value))
}

// Muted prints a dim line.
func Muted(text string) {
	fmt.Println(mutedStyle.Render("  " + text))
}

// Rule prints a horizontal divider.
func Rule() {
	fmt.Println(mutedStyle.Render("  ─────────────────────────────────────"))
}

// RowProgress returns a progress bar for row-count operations.
func RowProgress(total int, label string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(mutedStyle.Render("  "+label)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// FormatBytes renders a byte count for humans.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
