package cli

import (
	"strings"
)

// quickAdd is the parsed form of "tock add" words
type quickAdd struct {
	Title string
	Size  string
	Tags  []string
}

// parseQuickAdd pulls @tags and a !size marker out of free text.
// "Review PR @work !M" gives title "Review PR", tags [work], size M.
func parseQuickAdd(text string) quickAdd {
	var q quickAdd
	var titleParts []string

	for _, word := range strings.Fields(text) {
		switch {
		case strings.HasPrefix(word, "@") && len(word) > 1:
			q.Tags = append(q.Tags, strings.TrimPrefix(word, "@"))

		case strings.HasPrefix(word, "!") && len(word) > 1:
			// Unknown sizes are left to the editor to reject
			q.Size = strings.TrimPrefix(word, "!")

		default:
			titleParts = append(titleParts, word)
		}
	}

	q.Title = strings.Join(titleParts, " ")
	return q
}
