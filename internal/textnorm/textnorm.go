// Package textnorm folds user text into the accent-free lowercase form the
// search and filter layers compare against.
package textnorm

import "strings"

var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n', 'ý': 'y',
}

// Normalize lowercases, strips pt-BR diacritics and trims whitespace.
// Empty input stays empty.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if f, ok := accentFold[r]; ok {
			r = f
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CanonicalCategory reduces a category label or key to its comparable form:
// normalized, leading '#' removed, naive singular (a trailing 's' is dropped
// whenever the word is longer than three runes, so "gases" becomes "gase").
func CanonicalCategory(s string) string {
	c := Normalize(s)
	c = strings.TrimPrefix(c, "#")
	r := []rune(c)
	if len(r) > 3 && r[len(r)-1] == 's' {
		c = string(r[:len(r)-1])
	}
	return c
}

// TitleCase uppercases the first letter of each space-separated word. Used
// as the last-resort label backfill when no dictionary entry exists.
func TitleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
