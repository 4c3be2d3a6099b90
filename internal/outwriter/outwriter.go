// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/dashline/internal/contract"
	"golang.org/x/term"
)

// pixelsPerColumn approximates a terminal cell in pixels when sizing charts.
const pixelsPerColumn = 8

// GetContainerWidth returns the chart container width in pixels.
// An explicit width wins; otherwise it is derived from the terminal width.
func GetContainerWidth(cfg *contract.Config) float64 {
	if cfg.Width > 0 {
		return float64(cfg.Width)
	}
	return float64(terminalColumns() * pixelsPerColumn)
}

// terminalColumns returns the width of stdout in columns.
func terminalColumns() int {
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}
