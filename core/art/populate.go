package art

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"bnfm/logger"
	"bnfm/model"
	"bnfm/repository"
	"bnfm/storage"
)

// maxImageBytes caps a single album-art download.
const maxImageBytes = 10 << 20

// Populator executes cache-population jobs: it downloads each art
// variant, stores it in the blob store and records the cache entry.
type Populator struct {
	entries repository.AlbumArtRepository
	blobs   storage.BlobStore
	client  *http.Client
}

// NewPopulator wires the populator's collaborators.
func NewPopulator(entries repository.AlbumArtRepository, blobs storage.BlobStore) *Populator {
	return &Populator{
		entries: entries,
		blobs:   blobs,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// CacheAlbumArt downloads and stores each variant under trackId/size.
// Variants that fail to download or store are skipped; the cache entry is
// written only when at least one variant made it, so an entry always means
// usable art exists.
func (p *Populator) CacheAlbumArt(ctx context.Context, job CacheJob) error {
	if len(job.AlbumArt) == 0 {
		return nil
	}

	var stored []string
	for _, a := range job.AlbumArt {
		data, err := p.download(ctx, a.DownloadURL)
		if err != nil {
			logger.Warn("downloading album art", logger.ErrorField(err),
				logger.String("url", a.DownloadURL), logger.String("size", a.Size))
			continue
		}

		if err := p.blobs.PutObject(ctx, blobKey(job.TrackID, a.Size), data, "image/jpeg"); err != nil {
			logger.Warn("storing album art", logger.ErrorField(err),
				logger.String("trackId", job.TrackID), logger.String("size", a.Size))
			continue
		}

		stored = append(stored, a.Size)
	}

	if len(stored) == 0 {
		return nil
	}

	if err := p.entries.PutEntry(ctx, &model.AlbumArtEntry{TrackID: job.TrackID, Sizes: stored}); err != nil {
		return fmt.Errorf("recording album art entry %s: %w", job.TrackID, err)
	}

	logger.Info("album art cached",
		logger.String("trackId", job.TrackID), logger.Int("sizes", len(stored)))
	return nil
}

func (p *Populator) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}
