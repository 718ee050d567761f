package track

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"bnfm/core/catalog"
)

// stripMarks decomposes to NFD and removes combining diacritical marks, so
// accented and unaccented spellings of an artist compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeArtist lower-cases an artist name with diacritics stripped.
func NormalizeArtist(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// SimilarArtist reports whether two artist names refer to the same artist:
// normalized forms are equal, or one is a substring of the other (handles
// "Artist" vs "Artist & Collaborator").
func SimilarArtist(a, b string) bool {
	na := NormalizeArtist(a)
	nb := NormalizeArtist(b)
	if na == nb {
		return true
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// FindByArtist returns the first candidate with any contributor similar to
// artist, preserving the order of the result set. Reports false when no
// candidate matches.
func FindByArtist(candidates []catalog.Track, artist string) (catalog.Track, bool) {
	for _, c := range candidates {
		for _, contributor := range c.Artists {
			if SimilarArtist(contributor, artist) {
				return c, true
			}
		}
	}
	return catalog.Track{}, false
}
