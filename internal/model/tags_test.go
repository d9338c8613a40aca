package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"irregular spacing", "a  b   c", []string{"a", "b", "c"}},
		{"empty", "", []string{}},
		{"only spaces", "    ", []string{}},
		{"leading and trailing", "  urgent draft ", []string{"urgent", "draft"}},
		{"order preserved", "zeta alpha", []string{"zeta", "alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.input))
		})
	}
}

func TestJoinTags_RoundTrip(t *testing.T) {
	tags := []string{"urgent", "draft"}

	assert.Equal(t, "urgent draft", JoinTags(tags))
	assert.Equal(t, tags, ParseTags(JoinTags(tags)))
}
