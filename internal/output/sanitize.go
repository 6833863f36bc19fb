package output

import "regexp"

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences from external data before terminal
// output. DNS record data and HTTP headers are attacker-controlled input.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
