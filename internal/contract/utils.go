package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/dmgcalc/schema"
)

// Color variables for console output.
var (
	StrongerColor  = color.New(color.FgGreen, color.Bold) // build 2 out-damages build 1
	EvenColor      = color.New(color.FgYellow)
	WeakerColor    = color.New(color.FgRed, color.Bold)
	UndefinedColor = color.New(color.FgMagenta)
	HeaderColor    = color.New(color.FgCyan, color.Bold)
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetDiffLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(percentDiff float64) string {
	text := schema.GetDiffLabel(percentDiff)

	switch text {
	case schema.StrongerLabel:
		return StrongerColor.Sprint(text)
	case schema.WeakerLabel:
		return WeakerColor.Sprint(text)
	case schema.UndefinedLabel:
		return UndefinedColor.Sprint(text)
	default:
		return EvenColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
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
