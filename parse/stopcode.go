package parse

import (
	"regexp"
)

// ATCO codes come in two shapes: 4 digits, 3 letters, 5 digits and an
// optional letter (e.g. 0100BRP90023), or 9 digits (e.g. 010000037).
var (
	atcoFullRegexp    = regexp.MustCompile(`^\d{4}[A-Z]{3}\d{5}[A-Z]?$`)
	atcoNumericRegexp = regexp.MustCompile(`^\d{9}$`)
)

// Reports whether code is a well formed ATCO stop code.
func ValidStopCode(code string) bool {
	return atcoFullRegexp.MatchString(code) || atcoNumericRegexp.MatchString(code)
}
