package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/farewatch/farewatch/schema"
	"github.com/fatih/color"
)

// Drop label constants.
const (
	BigDropValue   = "Big drop"
	DropValue      = "Drop"
	NoDropValue    = "-"
	bigDropPercent = 20
)

// Color variables for console output.
var (
	BigDropColor = color.New(color.FgGreen, color.Bold) // BigDropColor highlights a steep fall below baseline.
	DropColor    = color.New(color.FgGreen)             // DropColor marks any reported drop.
	WarnColor    = color.New(color.FgYellow)            // WarnColor prefixes warnings on stderr.
	FatalColor   = color.New(color.FgRed, color.Bold)   // FatalColor prefixes fatal errors on stderr.
	InfoColor    = color.New(color.FgCyan)              // InfoColor prefixes progress lines on stderr.
)

var iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateIATA checks that code is exactly three uppercase ASCII letters.
func ValidateIATA(field, code string) error {
	if !iataPattern.MatchString(code) {
		return &schema.ValidationError{Field: field, Value: code}
	}
	return nil
}

// GetPlainDropLabel returns a plain text label for a drop percentage.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainDropLabel(dropPct *int) string {
	switch {
	case dropPct == nil:
		return NoDropValue
	case *dropPct >= bigDropPercent:
		return BigDropValue
	default:
		return DropValue
	}
}

// GetColorDropLabel returns a colored drop label for console output (table).
func GetColorDropLabel(dropPct *int) string {
	text := GetPlainDropLabel(dropPct)
	switch text {
	case BigDropValue:
		return BigDropColor.Sprint(text)
	case DropValue:
		return DropColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", FatalColor.Sprint("Fatal"), msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", WarnColor.Sprint("Warn"), msg, err)
}

// LogInfo logs a progress message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", InfoColor.Sprint("Info"), fmt.Sprintf(format, args...))
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for price history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".farewatch_history.db"
	}
	return filepath.Join(homeDir, ".farewatch_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
