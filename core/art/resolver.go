// Package art resolves album art for tracks through a three-tier
// strategy: cache lookup, external catalog search, or nothing.
package art

import (
	"context"
	"fmt"
	"time"

	"bnfm/core/catalog"
	"bnfm/core/track"
	"bnfm/logger"
	"bnfm/model"
	"bnfm/queue"
	"bnfm/repository"
	"bnfm/storage"
)

// CacheJobName names the cache-population job on the queue.
const CacheJobName = "cache-album-art"

// QueueKey is the Redis list the cache-population jobs travel on.
const QueueKey = "queue:album-art"

// urlExpiry limits how long a presigned download URL stays valid.
const urlExpiry = 3 * time.Minute

// CacheJob is the payload of a cache-population job.
type CacheJob struct {
	TrackID  string           `json:"trackId"`
	AlbumArt []model.AlbumArt `json:"albumArt"`
}

// Resolver picks album art for a track: cached blobs first, then an
// external catalog search whose results are cached asynchronously.
type Resolver struct {
	entries repository.AlbumArtRepository
	blobs   storage.BlobStore
	catalog catalog.Search
	jobs    queue.Queue
}

// NewResolver wires the resolver's collaborators.
func NewResolver(entries repository.AlbumArtRepository, blobs storage.BlobStore, search catalog.Search, jobs queue.Queue) *Resolver {
	return &Resolver{entries: entries, blobs: blobs, catalog: search, jobs: jobs}
}

// Resolve returns the art variants for a track. Station/ad tracks never
// get art. With onlyCache set, a cache miss returns nothing instead of
// hitting the catalog; the read API uses this so that listing history
// never triggers live external calls. Failures degrade to "no art".
func (r *Resolver) Resolve(ctx context.Context, t model.Track, onlyCache bool) []model.AlbumArt {
	if track.IsStationTrack(t) {
		return nil
	}

	if arts := r.fromCache(ctx, t.ID); len(arts) > 0 {
		return arts
	}

	if onlyCache {
		return nil
	}

	arts := r.fromCatalog(ctx, t)
	if len(arts) == 0 {
		return nil
	}

	// Fire and forget: the cache entry materializes later, the caller
	// gets the direct catalog URLs right away.
	job, err := queue.NewJob(CacheJobName, CacheJob{TrackID: t.ID, AlbumArt: arts})
	if err != nil {
		logger.Error("building cache job", logger.ErrorField(err), logger.String("trackId", t.ID))
		return arts
	}
	if err := r.jobs.Enqueue(ctx, job); err != nil {
		logger.Error("enqueueing cache job", logger.ErrorField(err), logger.String("trackId", t.ID))
	}

	return arts
}

func (r *Resolver) fromCache(ctx context.Context, trackID string) []model.AlbumArt {
	entry, err := r.entries.GetEntry(ctx, trackID)
	if err != nil {
		logger.Warn("reading album art cache entry", logger.ErrorField(err), logger.String("trackId", trackID))
		return nil
	}
	if entry == nil {
		return nil
	}

	arts := make([]model.AlbumArt, 0, len(entry.Sizes))
	for _, size := range entry.Sizes {
		url, err := r.blobs.PresignedURL(ctx, blobKey(trackID, size), urlExpiry)
		if err != nil {
			logger.Warn("presigning album art", logger.ErrorField(err),
				logger.String("trackId", trackID), logger.String("size", size))
			continue
		}
		arts = append(arts, model.AlbumArt{Size: size, DownloadURL: url})
	}
	return arts
}

func (r *Resolver) fromCatalog(ctx context.Context, t model.Track) []model.AlbumArt {
	results, err := r.catalog.SearchTrack(ctx, t.Name, t.Artist)
	if err != nil {
		logger.Warn("catalog search failed", logger.ErrorField(err),
			logger.String("name", t.Name), logger.String("artist", t.Artist))
		return nil
	}

	match, ok := track.FindByArtist(results, t.Artist)
	if !ok {
		return nil
	}

	arts := make([]model.AlbumArt, 0, len(match.Images))
	for _, img := range match.Images {
		arts = append(arts, model.AlbumArt{
			Size:        fmt.Sprintf("%dx%d", img.Height, img.Width),
			DownloadURL: img.URL,
		})
	}
	return arts
}

func blobKey(trackID, size string) string {
	return trackID + "/" + size
}
