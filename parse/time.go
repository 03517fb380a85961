package parse

import (
	"regexp"
	"strings"
)

var clockRegexp = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Normalizes a departure time cell. Clock times ("9:05", "14:32") are
// returned as is, without any timezone handling. Placeholders ("-",
// blank) and anything else unparseable yield nil.
func NormalizeTime(text string) *string {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return nil
	}
	if !clockRegexp.MatchString(text) {
		return nil
	}
	return &text
}
