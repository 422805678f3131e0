package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/paddock/schema"
)

// Color variables for console output.
var (
	LeaderColor = color.New(color.FgYellow, color.Bold) // LeaderColor marks first place.
	PodiumColor = color.New(color.FgCyan, color.Bold)   // PodiumColor marks second and third.
	PointsColor = color.New(color.FgGreen)              // PointsColor marks the rest of the points places.
	FieldColor  = color.New(color.FgWhite)              // FieldColor marks everyone else.
)

// GetColorLabel returns a colored position label for console output (table).
// It uses schema.GetPositionLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(position string) string {
	text := schema.GetPositionLabel(position)

	switch text {
	case schema.LeaderLabel:
		return LeaderColor.Sprint(text)
	case schema.PodiumLabel:
		return PodiumColor.Sprint(text)
	case schema.PointsLabel:
		return PointsColor.Sprint(text)
	default:
		return FieldColor.Sprint(text)
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
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// homeFile joins name onto the home directory, falling back to the working directory.
func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return homeFile(".paddock_cache.db")
}

// GetBoltFilePath returns the path to the bbolt file for cache storage.
func GetBoltFilePath() string {
	return homeFile(".paddock_cache.bolt")
}

// GetLoadDBFilePath returns the path to the SQLite DB file for load tracking.
func GetLoadDBFilePath() string {
	return homeFile(".paddock_loads.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
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
