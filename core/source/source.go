// Package source acquires the currently playing track from the station,
// either by polling the Centova status API or by reading one ICY metadata
// block off the live stream.
package source

import (
	"context"

	"bnfm/config"
	"bnfm/model"
)

// Source yields the station's currently playing track. The second return
// is false when there is nothing to report: network failures, ambiguous
// metadata and timeouts are all recovered locally, never surfaced as
// errors.
type Source interface {
	CurrentTrack(ctx context.Context) (model.Track, bool)
}

// New selects the configured source. The icecast source falls back to
// Centova when the stream yields no track.
func New(cfg *config.Config) Source {
	switch cfg.TrackSource {
	case "icecast":
		var fallback Source
		if cfg.CentovaURL != "" {
			fallback = NewCentova(cfg.CentovaURL)
		}
		return NewIcecast(cfg.StreamURL, fallback)
	default:
		return NewCentova(cfg.CentovaURL)
	}
}
