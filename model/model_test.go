package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 8, "hello..."},
		{"very small max", "hello", 2, "he"},
		{"max three", "hello", 3, "hel"},
		{"empty", "", 10, ""},
		{"unicode", "こんにちは世界", 6, "こんに..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.maxLen))
		})
	}
}

func TestCommandKinds(t *testing.T) {
	cmds := []Command{Generic{}, Architecture{}, CodeReview{}, Refactor{}, Readme{}}
	expected := []string{"generic", "architecture", "code-review", "refactor", "readme"}
	for i, c := range cmds {
		assert.Equal(t, expected[i], string(c.Kind()))
	}
}
