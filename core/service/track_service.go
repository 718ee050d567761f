// Package service orchestrates the poll cycle (acquire, compare, enrich,
// persist, notify) and the paginated history read API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bnfm/core/art"
	"bnfm/core/source"
	"bnfm/core/track"
	"bnfm/logger"
	"bnfm/model"
	"bnfm/notify"
	"bnfm/repository"
)

// ErrInvalidLimit is returned by GetTrackList for limits outside [1,25].
var ErrInvalidLimit = errors.New("limit has to be between 1 and 25")

const (
	minLimit = 1
	maxLimit = 25
)

// TrackService runs poll cycles and serves track-history reads.
type TrackService struct {
	src     source.Source
	tracks  repository.TrackRepository
	art     *art.Resolver
	channel notify.Channel

	// now is swappable for tests.
	now func() time.Time
}

// New wires a TrackService.
func New(src source.Source, tracks repository.TrackRepository, resolver *art.Resolver, channel notify.Channel) *TrackService {
	return &TrackService{
		src:     src,
		tracks:  tracks,
		art:     resolver,
		channel: channel,
		now:     time.Now,
	}
}

// Poll runs one cycle: acquire the current track, detect a change against
// the last persisted record, resolve art, persist and notify. "Nothing
// playing" and unchanged tracks end the cycle without side effects and
// without error.
func (s *TrackService) Poll(ctx context.Context) error {
	cur, ok := s.src.CurrentTrack(ctx)
	if !ok || !stringValid(cur.Name) || !stringValid(cur.Artist) {
		logger.Info("no track to report this cycle",
			logger.String("name", cur.Name), logger.String("artist", cur.Artist))
		return nil
	}

	cur.ID = track.ComputeID(cur)

	last, err := s.tracks.LastTrack(ctx, model.RadioPartition)
	if err != nil {
		return fmt.Errorf("loading last persisted track: %w", err)
	}
	if last != nil && last.ID == cur.ID {
		logger.Debug("track unchanged", logger.String("id", cur.ID))
		return nil
	}

	cur.Timestamp = s.now().Unix()
	cur.AlbumArt = []model.AlbumArt{}
	// Placeholder tracks carry no real metadata worth searching for; the
	// resolver itself rejects station/ad tracks.
	if !track.IsPlaceholderTrack(cur) {
		if arts := s.art.Resolve(ctx, cur, false); arts != nil {
			cur.AlbumArt = arts
		}
	}

	rec := recordFromTrack(cur)
	if err := s.tracks.PutTrack(ctx, &rec); err != nil {
		return fmt.Errorf("persisting track %s: %w", cur.ID, err)
	}

	payload, err := notify.BuildPushPayload(track.NormalizePlaceholder(cur))
	if err != nil {
		logger.Error("building push payload", logger.ErrorField(err), logger.String("id", cur.ID))
		return nil
	}
	if err := s.channel.Publish(ctx, payload); err != nil {
		// The record is already persisted; a lost notification is not
		// worth failing the cycle over.
		logger.Error("publishing track notification", logger.ErrorField(err), logger.String("id", cur.ID))
		return nil
	}

	logger.Info("new track persisted",
		logger.String("id", cur.ID),
		logger.String("name", cur.Name),
		logger.String("artist", cur.Artist),
		logger.Int("albumArt", len(cur.AlbumArt)))
	return nil
}

// TrackPage is one page of history plus the cursor for the next one.
// LastTrack is zero when this was the final page.
type TrackPage struct {
	Count     int           `json:"count"`
	Tracks    []model.Track `json:"tracks"`
	LastTrack int64         `json:"lastTrack,omitempty"`
}

// GetTrackList returns up to limit history entries, newest first, starting
// strictly after the before cursor when given. Art is resolved in
// cache-only mode so reads never hit the external catalog. Placeholder
// tracks are normalized to the display fallback; station/ad tracks are
// dropped only when filterAds is set.
func (s *TrackService) GetTrackList(ctx context.Context, limit int, filterAds bool, before int64) (*TrackPage, error) {
	if limit < minLimit || limit > maxLimit {
		return nil, ErrInvalidLimit
	}

	recs, err := s.tracks.LastTracks(ctx, model.RadioPartition, limit, before)
	if err != nil {
		return nil, fmt.Errorf("querying track history: %w", err)
	}

	tracks := make([]model.Track, 0, len(recs))
	for _, rec := range recs {
		t := model.Track{
			ID:        rec.ID,
			Name:      rec.Name,
			Artist:    rec.Artist,
			Timestamp: rec.Timestamp,
			AlbumArt:  []model.AlbumArt{},
		}
		if arts := s.art.Resolve(ctx, t, true); arts != nil {
			t.AlbumArt = arts
		}

		switch {
		case track.IsPlaceholderTrack(t):
			tracks = append(tracks, track.NormalizePlaceholder(t))
		case filterAds && track.IsStationTrack(t):
			// dropped
		default:
			tracks = append(tracks, t)
		}
	}

	page := &TrackPage{Count: len(tracks), Tracks: tracks}
	if len(recs) == limit {
		page.LastTrack = recs[len(recs)-1].Timestamp
	}
	return page, nil
}

func recordFromTrack(t model.Track) model.TrackRecord {
	return model.TrackRecord{
		ID:        t.ID,
		Radio:     model.RadioPartition,
		Timestamp: t.Timestamp,
		Name:      t.Name,
		Artist:    t.Artist,
		ExpireAt:  t.Timestamp + model.HistoryTTLSeconds,
	}
}

func stringValid(s string) bool {
	return strings.TrimSpace(s) != ""
}
