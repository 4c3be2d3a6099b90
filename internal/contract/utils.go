package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Severity label constants.
const (
	CriticalValue = "Critical" // Critical value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
)

// GetColorLabel returns a colored severity label for console output (table).
func GetColorLabel(label string) string {
	switch label {
	case CriticalValue:
		return CriticalColor.Sprint(label)
	case HighValue:
		return HighColor.Sprint(label)
	case ModerateValue:
		return ModerateColor.Sprint(label)
	default:
		return label
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
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

// GetDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".dashline_snapshots.db"
	}
	return filepath.Join(homeDir, ".dashline_snapshots.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so that at least one character survives.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
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

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// ParsePalette parses a comma-separated list of hex colors like "#06c,#4cb140".
// An empty string yields a nil palette, which means the default one.
func ParsePalette(s string) ([]string, error) {
	var palette []string
	for part := range strings.SplitSeq(s, ",") {
		c := strings.TrimSpace(part)
		if c == "" {
			continue
		}
		if !hexColorRe.MatchString(c) {
			return nil, fmt.Errorf("invalid color '%s', expected #rgb or #rrggbb", c)
		}
		palette = append(palette, strings.ToLower(c))
	}
	return palette, nil
}

// ParseLabelFilter parses a string like "method=GET,code=500:yes" into a
// label visibility map. Entries without an explicit flag hide the value.
func ParseLabelFilter(s string) (map[string]map[string]bool, error) {
	values := make(map[string]map[string]bool)
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		label, rest, ok := strings.Cut(part, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("invalid label filter '%s', expected 'label=value[:visible]'", part)
		}

		// Values may contain colons (host:port), so only a trailing boolean counts as a flag.
		value, visible := rest, false
		if idx := strings.LastIndex(rest, ":"); idx >= 0 {
			if v, err := ParseBoolString(strings.TrimSpace(rest[idx+1:])); err == nil {
				value, visible = rest[:idx], v
			}
		}
		value = strings.TrimSpace(value)

		if values[label] == nil {
			values[label] = make(map[string]bool)
		}
		values[label][value] = visible
	}
	return values, nil
}
