// internal/app/system/normalize/normalize.go

// Package normalize holds small input canonicalization helpers shared by
// the stores and handlers.
package normalize

import "strings"

// Email lowercases and trims an email address. Empty or whitespace-only
// input normalizes to "".
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
