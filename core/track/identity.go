package track

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"bnfm/model"
)

// stationNames are the literals the stream reports while a jingle, ad or
// station ID is on air instead of a real song.
var stationNames = []string{
	"bn mallorca",
	"bn mallorca radio",
	"publicidad",
	"bn mca",
	"bn mca radio",
	"en bn mca radio",
	"unknown",
}

// placeholderNames mark "no real metadata available" entries.
var placeholderNames = []string{
	"unknown",
	"not defined",
	"unknown - not defined",
}

// Display fallback for placeholder tracks.
const (
	FallbackName   = "BN MALLORCA"
	FallbackArtist = "BN MALLORCA Radio"
)

// ComputeID returns the stable content id of a track: the hex SHA-1 of
// "name++artist". Exact-string and case-sensitive, so two acquisitions of
// the same song yield the same id.
func ComputeID(t model.Track) string {
	sum := sha1.Sum([]byte(t.Name + "++" + t.Artist))
	return hex.EncodeToString(sum[:])
}

// IsStationTrack reports whether the track is the station's own jingle,
// ad or ID rather than a real song. Case-insensitive exact match only.
func IsStationTrack(t model.Track) bool {
	return matchesAny(t, stationNames)
}

// IsPlaceholderTrack reports whether the track is a "no metadata" filler.
func IsPlaceholderTrack(t model.Track) bool {
	return matchesAny(t, placeholderNames)
}

// NormalizePlaceholder substitutes the canonical display fallback for
// placeholder tracks and passes every other track through unchanged.
func NormalizePlaceholder(t model.Track) model.Track {
	if !IsPlaceholderTrack(t) {
		return t
	}

	normalized := t
	normalized.Name = FallbackName
	normalized.Artist = FallbackArtist
	return normalized
}

func matchesAny(t model.Track, names []string) bool {
	name := strings.ToLower(t.Name)
	artist := strings.ToLower(t.Artist)
	for _, n := range names {
		if name == n || artist == n {
			return true
		}
	}
	return false
}
