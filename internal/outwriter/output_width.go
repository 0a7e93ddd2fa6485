package outwriter

import (
	"os"

	"github.com/farewatch/farewatch/internal/contract"
	"golang.org/x/term"
)

// getMaxTextColumnWidth calculates how wide the free-text column of a table
// may be, given the width taken by the fixed columns.
func getMaxTextColumnWidth(cfg *contract.Config, fixedWidth int) int {
	termWidth := cfg.Width

	if termWidth <= 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve generous space for table borders, separators, and padding
	available := termWidth - fixedWidth - 20
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
