package present

import (
	"fmt"
	"strings"
)

var priceSeparators = []string{" - ", " • ", " | "}

var perUnitSuffixes = []string{"/trecho", "/mês", "/mes", "/noite", "/pessoa", "/hora", "/dia"}

// SplitPriceText splits a free-text price into a main and a small portion.
// Rules are tried in order and the first match wins: explicit newline,
// trailing parenthetical, separator, per-unit suffix. No match keeps the
// whole string as main.
func SplitPriceText(s string) (main, small string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}

	if i := strings.IndexAny(s, "\n"); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}

	if strings.HasSuffix(s, ")") {
		if i := strings.LastIndex(s, "("); i > 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1 : len(s)-1])
		}
	}

	for _, sep := range priceSeparators {
		if i := strings.Index(s, sep); i >= 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):])
		}
	}

	for _, suf := range perUnitSuffixes {
		if i := strings.Index(s, suf); i >= 0 {
			cut := i + len(suf)
			rest := strings.TrimSpace(s[cut:])
			if rest != "" {
				return strings.TrimSpace(s[:cut]), rest
			}
		}
	}

	return s, ""
}

// FormatBRL renders a price the way the cards show it: R$ 1.234,56.
func FormatBRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(v*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), frac)
}
