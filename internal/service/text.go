package service

import "unicode/utf8"

// clampUTF8 truncates s to at most max bytes without splitting a rune, so
// clamped text stays valid UTF-8 for the model API.
func clampUTF8(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
