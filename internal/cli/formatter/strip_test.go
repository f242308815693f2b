package formatter

import "regexp"

// ANSI escape sequences vary with the terminal profile lipgloss detects,
// so assertions run against stripped output.
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
