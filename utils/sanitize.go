package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

const maxSanitizePasses = 8

// SanitizeText strips all markup from user supplied plain text so stored text reads as
// typed. Decoding entities can surface new markup, so the text is sanitized and decoded
// until it stops changing; a result that never settles is returned still escaped.
func SanitizeText(input string) string {
	text := input
	for i := 0; i < maxSanitizePasses; i++ {
		decoded := html.UnescapeString(strict.Sanitize(text))
		if decoded == text {
			return text
		}
		text = decoded
	}
	return strict.Sanitize(text)
}
