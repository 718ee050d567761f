package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"bnfm/core/art"
	"bnfm/core/catalog"
	"bnfm/model"
	"bnfm/notify"
	"bnfm/queue"
)

type fakeSource struct {
	track model.Track
	ok    bool
}

func (f *fakeSource) CurrentTrack(context.Context) (model.Track, bool) {
	return f.track, f.ok
}

type memTrackRepo struct {
	recs   []*model.TrackRecord
	putErr error
}

func (m *memTrackRepo) PutTrack(_ context.Context, rec *model.TrackRecord) error {
	if m.putErr != nil {
		return m.putErr
	}
	cp := *rec
	m.recs = append(m.recs, &cp)
	return nil
}

func (m *memTrackRepo) LastTrack(ctx context.Context, radio string) (*model.TrackRecord, error) {
	recs, err := m.LastTracks(ctx, radio, 1, 0)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return recs[0], nil
}

func (m *memTrackRepo) LastTracks(_ context.Context, radio string, limit int, before int64) ([]*model.TrackRecord, error) {
	var out []*model.TrackRecord
	for _, r := range m.recs {
		if r.Radio != radio {
			continue
		}
		if before > 0 && r.Timestamp >= before {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeChannel struct {
	published []notify.PushPayload
}

func (f *fakeChannel) Publish(_ context.Context, p notify.PushPayload) error {
	f.published = append(f.published, p)
	return nil
}

type memEntries struct {
	entries map[string]*model.AlbumArtEntry
}

func (m *memEntries) GetEntry(_ context.Context, id string) (*model.AlbumArtEntry, error) {
	return m.entries[id], nil
}

func (m *memEntries) PutEntry(_ context.Context, e *model.AlbumArtEntry) error {
	m.entries[e.TrackID] = e
	return nil
}

type memBlobs struct{}

func (memBlobs) PutObject(context.Context, string, []byte, string) error { return nil }

func (memBlobs) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}

type countingCatalog struct {
	results []catalog.Track
	calls   int
}

func (c *countingCatalog) SearchTrack(context.Context, string, string) ([]catalog.Track, error) {
	c.calls++
	return c.results, nil
}

type memQueue struct {
	jobs []queue.Job
}

func (m *memQueue) Enqueue(_ context.Context, j queue.Job) error {
	m.jobs = append(m.jobs, j)
	return nil
}

func (m *memQueue) Dequeue(context.Context, time.Duration) (*queue.Job, error) {
	return nil, nil
}

type fixture struct {
	src     *fakeSource
	repo    *memTrackRepo
	channel *fakeChannel
	catalog *countingCatalog
	jobs    *memQueue
	svc     *TrackService
	clock   int64
}

func newFixture() *fixture {
	f := &fixture{
		src:     &fakeSource{},
		repo:    &memTrackRepo{},
		channel: &fakeChannel{},
		catalog: &countingCatalog{},
		jobs:    &memQueue{},
		clock:   time.Now().Unix(),
	}
	resolver := art.NewResolver(&memEntries{entries: make(map[string]*model.AlbumArtEntry)}, memBlobs{}, f.catalog, f.jobs)
	f.svc = New(f.src, f.repo, resolver, f.channel)
	f.svc.now = func() time.Time { return time.Unix(f.clock, 0) }
	return f
}

func TestPollNewTrackPersistsAndNotifies(t *testing.T) {
	f := newFixture()
	f.src.track = model.Track{Name: "Sweet Child O' Mine", Artist: "Guns N' Roses"}
	f.src.ok = true
	f.catalog.results = []catalog.Track{{
		Artists: []string{"Guns N' Roses"},
		Images: []catalog.Image{
			{Height: 640, Width: 640, URL: "https://img.test/640"},
			{Height: 300, Width: 300, URL: "https://img.test/300"},
		},
	}}

	if err := f.svc.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	if len(f.repo.recs) != 1 {
		t.Fatalf("got %d records, want 1", len(f.repo.recs))
	}
	rec := f.repo.recs[0]
	if rec.Name != "Sweet Child O' Mine" || rec.Artist != "Guns N' Roses" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Radio != model.RadioPartition {
		t.Errorf("radio = %q, want %q", rec.Radio, model.RadioPartition)
	}
	if rec.ExpireAt != rec.Timestamp+model.HistoryTTLSeconds {
		t.Errorf("expireAt = %d, want timestamp + 15 days", rec.ExpireAt)
	}

	if len(f.channel.published) != 1 {
		t.Fatalf("got %d notifications, want 1", len(f.channel.published))
	}
	if len(f.jobs.jobs) != 1 {
		t.Errorf("got %d cache jobs, want 1", len(f.jobs.jobs))
	}

	page, err := f.svc.GetTrackList(context.Background(), 1, false, 0)
	if err != nil {
		t.Fatalf("GetTrackList: %v", err)
	}
	if len(page.Tracks) != 1 || page.Tracks[0].Name != "Sweet Child O' Mine" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestPollUnchangedTrackHasNoSideEffects(t *testing.T) {
	f := newFixture()
	f.src.track = model.Track{Name: "Yellow", Artist: "Coldplay"}
	f.src.ok = true

	if err := f.svc.Poll(context.Background()); err != nil {
		t.Fatalf("first Poll: %v", err)
	}
	f.clock++
	if err := f.svc.Poll(context.Background()); err != nil {
		t.Fatalf("second Poll: %v", err)
	}

	if len(f.repo.recs) != 1 {
		t.Errorf("got %d records, want 1", len(f.repo.recs))
	}
	if len(f.channel.published) != 1 {
		t.Errorf("got %d notifications, want 1", len(f.channel.published))
	}
}

func TestPollNoTrackAbortsQuietly(t *testing.T) {
	f := newFixture()
	f.src.ok = false

	if err := f.svc.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(f.repo.recs) != 0 || len(f.channel.published) != 0 {
		t.Error("no-track cycle must have no side effects")
	}

	// Incomplete track counts as nothing to report too.
	f.src.track = model.Track{Name: "Yellow", Artist: "   "}
	f.src.ok = true
	if err := f.svc.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(f.repo.recs) != 0 {
		t.Error("incomplete track must not be persisted")
	}
}

func TestPollStationTrackSkipsArt(t *testing.T) {
	f := newFixture()
	f.src.track = model.Track{Name: "BN MCA", Artist: "publicidad"}
	f.src.ok = true

	if err := f.svc.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	if f.catalog.calls != 0 {
		t.Error("station track must not reach the catalog")
	}
	if len(f.repo.recs) != 1 {
		t.Fatalf("got %d records, want 1", len(f.repo.recs))
	}
	if len(f.jobs.jobs) != 0 {
		t.Error("station track must not enqueue cache jobs")
	}
}

func TestPollPersistFailureSurfaces(t *testing.T) {
	f := newFixture()
	f.src.track = model.Track{Name: "Yellow", Artist: "Coldplay"}
	f.src.ok = true
	f.repo.putErr = errors.New("db down")

	if err := f.svc.Poll(context.Background()); err == nil {
		t.Error("expected persist failure to surface")
	}
}

func TestGetTrackListLimitBounds(t *testing.T) {
	f := newFixture()

	for _, limit := range []int{0, -1, 26, 100} {
		if _, err := f.svc.GetTrackList(context.Background(), limit, false, 0); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("limit %d: got %v, want ErrInvalidLimit", limit, err)
		}
	}
	for _, limit := range []int{1, 25} {
		if _, err := f.svc.GetTrackList(context.Background(), limit, false, 0); err != nil {
			t.Errorf("limit %d: unexpected error %v", limit, err)
		}
	}
}

func TestGetTrackListNeverSearchesCatalog(t *testing.T) {
	f := newFixture()
	f.seed("Yellow", "Coldplay", 100)
	f.seed("Levitating", "Dua Lipa", 200)

	if _, err := f.svc.GetTrackList(context.Background(), 25, false, 0); err != nil {
		t.Fatalf("GetTrackList: %v", err)
	}
	if f.catalog.calls != 0 {
		t.Errorf("read path hit the catalog %d times", f.catalog.calls)
	}
}

func TestGetTrackListPagination(t *testing.T) {
	f := newFixture()
	base := time.Now().Unix()
	f.seed("One", "A", base+100)
	f.seed("Two", "B", base+200)
	f.seed("Three", "C", base+300)

	page, err := f.svc.GetTrackList(context.Background(), 2, false, 0)
	if err != nil {
		t.Fatalf("GetTrackList: %v", err)
	}
	if len(page.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(page.Tracks))
	}
	if page.Tracks[0].Name != "Three" || page.Tracks[1].Name != "Two" {
		t.Errorf("wrong order: %q, %q", page.Tracks[0].Name, page.Tracks[1].Name)
	}
	if page.LastTrack != base+200 {
		t.Errorf("cursor = %d, want %d", page.LastTrack, base+200)
	}

	next, err := f.svc.GetTrackList(context.Background(), 2, false, page.LastTrack)
	if err != nil {
		t.Fatalf("GetTrackList: %v", err)
	}
	if len(next.Tracks) != 1 || next.Tracks[0].Name != "One" {
		t.Errorf("unexpected second page %+v", next.Tracks)
	}
	// Page not full: no cursor.
	if next.LastTrack != 0 {
		t.Errorf("cursor on final page = %d, want 0", next.LastTrack)
	}
}

func TestGetTrackListNormalizesPlaceholders(t *testing.T) {
	f := newFixture()
	f.seed("not defined", "Unknown", time.Now().Unix())

	page, err := f.svc.GetTrackList(context.Background(), 5, false, 0)
	if err != nil {
		t.Fatalf("GetTrackList: %v", err)
	}
	if len(page.Tracks) != 1 {
		t.Fatalf("placeholder was filtered out")
	}
	got := page.Tracks[0]
	if got.Name == "not defined" || got.Artist == "Unknown" {
		t.Errorf("placeholder not normalized: %q/%q", got.Name, got.Artist)
	}
}

func TestGetTrackListFiltersStationTracks(t *testing.T) {
	f := newFixture()
	base := time.Now().Unix()
	f.seed("Yellow", "Coldplay", base+1)
	f.seed("ad break", "publicidad", base+2)

	// Unfiltered keeps the ad.
	page, err := f.svc.GetTrackList(context.Background(), 5, false, 0)
	if err != nil {
		t.Fatalf("GetTrackList: %v", err)
	}
	if len(page.Tracks) != 2 {
		t.Errorf("got %d tracks, want 2", len(page.Tracks))
	}

	// Filtered drops it.
	page, err = f.svc.GetTrackList(context.Background(), 5, true, 0)
	if err != nil {
		t.Fatalf("GetTrackList: %v", err)
	}
	if len(page.Tracks) != 1 || page.Tracks[0].Name != "Yellow" {
		t.Errorf("unexpected filtered page %+v", page.Tracks)
	}
}

// seed inserts a history record directly, bypassing the poll cycle.
func (f *fixture) seed(name, artist string, ts int64) {
	f.repo.recs = append(f.repo.recs, &model.TrackRecord{
		ID:        "seed-" + name,
		Radio:     model.RadioPartition,
		Timestamp: ts,
		Name:      name,
		Artist:    artist,
		ExpireAt:  ts + model.HistoryTTLSeconds,
	})
}
