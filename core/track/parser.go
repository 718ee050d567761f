package track

import (
	"strings"

	"bnfm/model"
)

// titleSeparators is tried in order; the first one present in the title
// splits artist from name.
var titleSeparators = []string{" - ", " – ", " — ", " | "}

// ParseStreamTitle splits a raw stream title ("Artist - Name") into a
// track. It reports false when no separator matches or either side ends up
// empty, since the string cannot be assigned to artist vs. name.
func ParseStreamTitle(title string) (model.Track, bool) {
	for _, sep := range titleSeparators {
		if !strings.Contains(title, sep) {
			continue
		}

		parts := strings.Split(title, sep)
		artist := strings.TrimSpace(parts[0])
		rest := parts[1:]

		// Some streams prefix the title with the artist twice
		// ("Artist - Artist - Name"); drop the duplicate.
		if len(rest) > 1 && strings.TrimSpace(rest[0]) == artist {
			rest = rest[1:]
		}

		name := strings.TrimSpace(strings.Join(rest, sep))
		if artist == "" || name == "" {
			return model.Track{}, false
		}

		return model.Track{Name: name, Artist: artist}, true
	}

	return model.Track{}, false
}
