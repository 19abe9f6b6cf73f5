package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes combining diacritical marks ("Descripción" -> "Descripcion").
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases and strips accents, for keyword matching.
func Fold(s string) string {
	return StripAccents(strings.ToLower(s))
}

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	allowedRe = regexp.MustCompile(`[^a-z0-9_\-.]+`)
	digitsRe  = regexp.MustCompile(`\d+`)
)

// Norm produces a stable identifier from free text: accents stripped,
// lowercased, whitespace collapsed to underscores, everything outside
// [a-z0-9_-.] dropped.
func Norm(s string) string {
	s = Fold(strings.TrimSpace(s))
	s = spaceRe.ReplaceAllString(s, "_")
	return allowedRe.ReplaceAllString(s, "")
}

// CollapseSpace trims and collapses runs of whitespace to single spaces.
func CollapseSpace(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Digits returns the first run of decimal digits in s, or "".
func Digits(s string) string {
	return digitsRe.FindString(s)
}
