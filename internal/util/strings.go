package util

import "strings"

// NormalizeEmail lowercases and trims an email address so lookups are
// insensitive to how the user typed it.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
