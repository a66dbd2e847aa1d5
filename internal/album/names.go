package album

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fallbackName = "Mediapick"

// NormalizeName trims, collapses whitespace, and NFC-normalizes an album
// name. Blank names fall back to the default album.
func NormalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return fallbackName
	}
	return norm.NFC.String(name)
}

// DisplayName title-cases a normalized album name for listings.
func DisplayName(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(NormalizeName(name))
}

// Slug maps an album name to its directory name: accents stripped,
// lower-cased, anything outside letters and digits collapsed to '-'.
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, NormalizeName(name))
	if err != nil {
		folded = NormalizeName(name)
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return strings.ToLower(fallbackName)
	}
	return slug
}
