package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Daily load label constants.
const (
	OverloadedValue = "Overloaded" // More than a full day of work
	FullValue       = "Full"       // About one person-day
	BusyValue       = "Busy"       // At least half a day
	LightValue      = "Light"      // Less than half a day
)

// Color variables for console output.
var (
	OverloadedColor = color.New(color.FgRed, color.Bold)
	FullColor       = color.New(color.FgMagenta, color.Bold)
	BusyColor       = color.New(color.FgYellow)
	LightColor      = color.New(color.FgCyan)
)

// GetPlainLabel returns a plain text label for a load in person-days.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(load float64) string {
	switch {
	case load > 1.0:
		return OverloadedValue
	case load >= 0.9:
		return FullValue
	case load >= 0.5:
		return BusyValue
	default:
		return LightValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(load float64) string {
	text := GetPlainLabel(load)

	switch text {
	case OverloadedValue:
		return OverloadedColor.Sprint(text)
	case FullValue:
		return FullColor.Sprint(text)
	case BusyValue:
		return BusyColor.Sprint(text)
	default:
		return LightColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetExportDBFilePath returns the path to the SQLite DB file for exports.
func GetExportDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".workload_export.db"
	}
	return filepath.Join(homeDir, ".workload_export.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
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
