package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain path", input: "/library/Movie (2019).mkv", want: "/library/Movie (2019).mkv"},
		{name: "newline injection", input: "file.mkv\nERROR: fake entry", want: "file.mkv\\nERROR: fake entry"},
		{name: "carriage return", input: "a\rb", want: "a\\rb"},
		{name: "tab", input: "a\tb", want: "a\\tb"},
		{name: "null byte", input: "a\x00b", want: "a\\x00b"},
		{name: "ansi escape", input: "a\x1b[31mb", want: "a\\x1b[31mb"},
		{name: "control char", input: "a\x07b", want: "a\\x07b"},
		{name: "unicode preserved", input: "фильм 映画 café 🎬.mkv", want: "фильм 映画 café 🎬.mkv"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeForLog(tt.input))
		})
	}
}
