package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bnfm/model"
)

// AlbumArtRepository stores which art size variants are cached for a track
// id. Entries are written once and read-only afterward.
type AlbumArtRepository interface {
	// GetEntry returns nil without error when no entry exists for the id.
	GetEntry(ctx context.Context, trackID string) (*model.AlbumArtEntry, error)
	PutEntry(ctx context.Context, entry *model.AlbumArtEntry) error
}

// redisAlbumArtRepository keeps one JSON value per track id.
type redisAlbumArtRepository struct {
	client *redis.Client
}

// NewRedisAlbumArtRepository creates a Redis-backed album-art repository.
func NewRedisAlbumArtRepository(client *redis.Client) AlbumArtRepository {
	return &redisAlbumArtRepository{client: client}
}

func albumArtKey(trackID string) string {
	return fmt.Sprintf("albumart:%s", trackID)
}

func (r *redisAlbumArtRepository) GetEntry(ctx context.Context, trackID string) (*model.AlbumArtEntry, error) {
	data, err := r.client.Get(ctx, albumArtKey(trackID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album art entry %s: %w", trackID, err)
	}

	var entry model.AlbumArtEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal album art entry %s: %w", trackID, err)
	}
	return &entry, nil
}

func (r *redisAlbumArtRepository) PutEntry(ctx context.Context, entry *model.AlbumArtEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal album art entry %s: %w", entry.TrackID, err)
	}

	// Art outlives the track history TTL, so no expiry on the entry.
	if err := r.client.Set(ctx, albumArtKey(entry.TrackID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store album art entry %s: %w", entry.TrackID, err)
	}
	return nil
}
