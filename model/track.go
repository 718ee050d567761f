package model

// RadioPartition is the fixed partition key for the single station this
// service tracks.
const RadioPartition = "bnmallorca"

// HistoryTTLSeconds is how long a played track stays in the history before
// the store purges it (15 days).
const HistoryTTLSeconds = 60 * 60 * 24 * 15

// Track is the in-flight representation of what the station is playing.
// ID is absent until computed from name and artist.
type Track struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Artist    string     `json:"artist"`
	Timestamp int64      `json:"timestamp,omitempty"`
	AlbumArt  []AlbumArt `json:"albumArt"`
}

// AlbumArt is one size variant of a track's cover image.
type AlbumArt struct {
	Size        string `json:"size"` // "HxW"
	DownloadURL string `json:"downloadUrl"`
}

// TrackRecord is the durable, append-only play-history row for a station.
// Rows are never updated; expired rows are purged by a scheduled event on
// the database, never by application code.
type TrackRecord struct {
	ID        string `gorm:"column:id;size:40;not null" json:"id"`
	Radio     string `gorm:"column:radio;primaryKey;size:32" json:"radio"`
	Timestamp int64  `gorm:"column:timestamp;primaryKey;autoIncrement:false" json:"timestamp"`
	Name      string `gorm:"column:name;size:255;not null" json:"name"`
	Artist    string `gorm:"column:artist;size:255;not null" json:"artist"`
	ExpireAt  int64  `gorm:"column:expire_at;not null;index" json:"expireAt"`
}

// TableName overrides the gorm default.
func (TrackRecord) TableName() string {
	return "track_history"
}

// AlbumArtEntry records which size variants of a track's album art have
// been stored in the blob store. An entry exists only after at least one
// variant was fetched and stored successfully.
type AlbumArtEntry struct {
	TrackID string   `json:"trackId"`
	Sizes   []string `json:"sizes"`
}
