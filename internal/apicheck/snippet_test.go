package apicheck

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"short body trimmed", "  {\"detail\":\"x\"}\n", `{"detail":"x"}`},
		{"ascii capped", strings.Repeat("a", 250), strings.Repeat("a", snippetLen)},
		// "é" is two bytes, so byte 200 falls inside a rune.
		{"multibyte cut on rune boundary", "a" + strings.Repeat("é", 150), "a" + strings.Repeat("é", 99)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := snippet([]byte(tc.body))
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), snippetLen)
		})
	}
}
