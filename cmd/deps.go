package cmd

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"bnfm/config"
	"bnfm/core/art"
	"bnfm/core/catalog"
	"bnfm/core/service"
	"bnfm/core/source"
	"bnfm/db"
	"bnfm/notify"
	"bnfm/queue"
	"bnfm/repository"
	"bnfm/storage"
)

// trackDeps bundles everything a TrackService needs. Built once per
// process at startup; none of it is ambient global state.
type trackDeps struct {
	rdb *redis.Client
	svc *service.TrackService
}

// buildTrackService wires stores, catalog and channel into a TrackService.
func buildTrackService(cfg *config.Config) (*trackDeps, error) {
	gdb, err := db.ConnectGorm(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting MySQL: %w", err)
	}

	rdb, err := db.ConnectRedis(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting Redis: %w", err)
	}

	store, err := storage.NewMinioStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting MinIO: %w", err)
	}

	resolver := art.NewResolver(
		repository.NewRedisAlbumArtRepository(rdb),
		store,
		catalog.NewSpotify(cfg.SpotifyClientID, cfg.SpotifySecret),
		queue.NewRedisQueue(rdb, art.QueueKey),
	)

	svc := service.New(
		source.New(cfg),
		repository.NewMySQLTrackRepository(gdb),
		resolver,
		notify.NewRedisChannel(rdb, notify.Topic),
	)

	return &trackDeps{rdb: rdb, svc: svc}, nil
}
