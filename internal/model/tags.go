package model

import (
	"strings"
)

// ParseTags splits space separated input into tags, dropping empty tokens
func ParseTags(s string) []string {
	tags := strings.Fields(s)
	if tags == nil {
		return []string{}
	}
	return tags
}

// JoinTags renders tags back into the editable form ParseTags accepts
func JoinTags(tags []string) string {
	return strings.Join(tags, " ")
}

// HasTagContaining returns true if any tag contains the lowercase needle
func HasTagContaining(tags []string, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
