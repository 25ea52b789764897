package util

import "strconv"

// Noun picks the singular or plural form for n.
func Noun(n int, one, many string) string {
	if n == 1 || n == -1 {
		return one
	}

	return many
}

// Count formats n with its noun, e.g. "1 imposter", "3 imposters".
func Count(n int, one, many string) string {
	return strconv.Itoa(n) + " " + Noun(n, one, many)
}
