// Package util provides small string helpers shared by the script parser
// and the CLI.
package util

import (
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double
// quotes ("). Script files escape embedded quotes by doubling them.
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// UnquoteArg undoes script-file quoting in one step: surrounding quotes
// stripped, doubled quotes collapsed.
func UnquoteArg(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}

// FormatStreamLabel builds the display label used in logs and tables.
// Format: "#<id> <name> (<speed>x)" with the speed omitted at 1.0.
func FormatStreamLabel(id uint, name string, speed float64) string {
	var b strings.Builder
	b.WriteByte('#')
	b.WriteString(strconv.FormatUint(uint64(id), 10))
	if name != "" {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	if speed != 0 && speed != 1.0 {
		b.WriteString(" (")
		b.WriteString(strconv.FormatFloat(speed, 'f', 1, 64))
		b.WriteString("x)")
	}
	return b.String()
}
