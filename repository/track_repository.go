package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bnfm/model"
)

// TrackRepository stores the append-only play history of a station.
// Records are only ever inserted; reads are ordered by timestamp
// descending within the station partition.
type TrackRepository interface {
	PutTrack(ctx context.Context, rec *model.TrackRecord) error
	// LastTrack returns the most recently persisted record for the
	// station, or nil when the history is empty.
	LastTrack(ctx context.Context, radio string) (*model.TrackRecord, error)
	// LastTracks returns up to limit records in descending timestamp
	// order. A before cursor > 0 restricts the page to records strictly
	// older than that timestamp.
	LastTracks(ctx context.Context, radio string, limit int, before int64) ([]*model.TrackRecord, error)
}

// mysqlTrackRepository implements TrackRepository on MySQL via GORM.
type mysqlTrackRepository struct {
	db *gorm.DB
}

// NewMySQLTrackRepository creates a new instance of mysqlTrackRepository.
func NewMySQLTrackRepository(db *gorm.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

// PutTrack inserts a new history record. Always an insert, never an
// update: the (radio, timestamp) pair keys each detected change.
func (r *mysqlTrackRepository) PutTrack(ctx context.Context, rec *model.TrackRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to insert track record %s: %w", rec.ID, err)
	}
	return nil
}

func (r *mysqlTrackRepository) LastTrack(ctx context.Context, radio string) (*model.TrackRecord, error) {
	recs, err := r.LastTracks(ctx, radio, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

func (r *mysqlTrackRepository) LastTracks(ctx context.Context, radio string, limit int, before int64) ([]*model.TrackRecord, error) {
	// Expired records may linger until the scheduled purge runs, so the
	// query filters them out as well.
	q := r.db.WithContext(ctx).
		Where("radio = ? AND expire_at > ?", radio, time.Now().Unix())
	if before > 0 {
		q = q.Where("timestamp < ?", before)
	}

	var recs []*model.TrackRecord
	if err := q.Order("timestamp DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query track history for %s: %w", radio, err)
	}
	return recs, nil
}
