package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuickAdd(t *testing.T) {
	tests := []struct {
		input string
		want  quickAdd
	}{
		{"Buy groceries", quickAdd{Title: "Buy groceries"}},
		{"Review PR @work !S", quickAdd{Title: "Review PR", Size: "S", Tags: []string{"work"}}},
		{"@a Fix @b bug", quickAdd{Title: "Fix bug", Tags: []string{"a", "b"}}},
		{"Say hi @ !", quickAdd{Title: "Say hi @ !"}},
		{"!XL !M big", quickAdd{Title: "big", Size: "M"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseQuickAdd(tt.input))
		})
	}
}
