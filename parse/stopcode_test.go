package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStopCode(t *testing.T) {
	for _, tc := range []struct {
		code  string
		valid bool
	}{
		{"0100BRP90023", true},
		{"0100BRP90023A", true},
		{"1800NE434310", false},
		{"010000037", true},
		{"abc", false},
		{"", false},
		{"0100brp90023", false},
		{"0100BRP9002", false},
		{"0100BRP90023AB", false},
		{"01000003", false},
		{"0100000377", false},
		{" 010000037", false},
		{"010000037\n", false},
	} {
		assert.Equal(t, tc.valid, ValidStopCode(tc.code), "code %q", tc.code)
	}
}
