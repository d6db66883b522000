// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied text
// before it is stored, mailed, or rendered.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize keeps safe user-generated markup (paragraphs, emphasis, links)
// and removes scripts, event handlers, and javascript: URLs.
func Sanitize(s string) string {
	return ugcPolicy.Sanitize(s)
}

// StripTags removes all markup, leaving plain text. Used for fields that
// are never rendered as HTML, like contact-form messages forwarded by
// email.
func StripTags(s string) string {
	return strictPolicy.Sanitize(s)
}
