package art

import (
	"context"
	"testing"
	"time"

	"bnfm/core/catalog"
	"bnfm/model"
	"bnfm/queue"
)

type fakeEntries struct {
	entries map[string]*model.AlbumArtEntry
	puts    int
}

func newFakeEntries() *fakeEntries {
	return &fakeEntries{entries: make(map[string]*model.AlbumArtEntry)}
}

func (f *fakeEntries) GetEntry(_ context.Context, trackID string) (*model.AlbumArtEntry, error) {
	return f.entries[trackID], nil
}

func (f *fakeEntries) PutEntry(_ context.Context, entry *model.AlbumArtEntry) error {
	f.puts++
	f.entries[entry.TrackID] = entry
	return nil
}

type fakeBlobs struct {
	objects map[string][]byte
	putErr  map[string]error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte), putErr: make(map[string]error)}
}

func (f *fakeBlobs) PutObject(_ context.Context, key string, body []byte, _ string) error {
	if err := f.putErr[key]; err != nil {
		return err
	}
	f.objects[key] = body
	return nil
}

func (f *fakeBlobs) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}

type fakeCatalog struct {
	results []catalog.Track
	err     error
	calls   int
}

func (f *fakeCatalog) SearchTrack(context.Context, string, string) ([]catalog.Track, error) {
	f.calls++
	return f.results, f.err
}

type fakeQueue struct {
	jobs []queue.Job
}

func (f *fakeQueue) Enqueue(_ context.Context, job queue.Job) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) Dequeue(context.Context, time.Duration) (*queue.Job, error) {
	if len(f.jobs) == 0 {
		return nil, nil
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	return &job, nil
}

func TestResolveStationTrackGetsNoArt(t *testing.T) {
	cat := &fakeCatalog{results: []catalog.Track{{Artists: []string{"whatever"}}}}
	r := NewResolver(newFakeEntries(), newFakeBlobs(), cat, &fakeQueue{})

	tr := model.Track{ID: "x", Name: "BN MCA", Artist: "publicidad"}
	if arts := r.Resolve(context.Background(), tr, false); len(arts) != 0 {
		t.Errorf("station track got art: %v", arts)
	}
	if cat.calls != 0 {
		t.Error("station track must never reach the catalog")
	}
}

func TestResolveCacheHit(t *testing.T) {
	entries := newFakeEntries()
	entries.entries["id1"] = &model.AlbumArtEntry{TrackID: "id1", Sizes: []string{"640x640", "300x300"}}
	cat := &fakeCatalog{}
	r := NewResolver(entries, newFakeBlobs(), cat, &fakeQueue{})

	arts := r.Resolve(context.Background(), model.Track{ID: "id1", Name: "Yellow", Artist: "Coldplay"}, false)
	if len(arts) != 2 {
		t.Fatalf("got %d variants, want 2", len(arts))
	}
	if arts[0].DownloadURL != "https://blobs.test/id1/640x640" {
		t.Errorf("unexpected URL %q", arts[0].DownloadURL)
	}
	if cat.calls != 0 {
		t.Error("cache hit must not reach the catalog")
	}
}

func TestResolveOnlyCacheMiss(t *testing.T) {
	cat := &fakeCatalog{results: []catalog.Track{{Artists: []string{"Coldplay"}, Images: []catalog.Image{{Height: 640, Width: 640, URL: "u"}}}}}
	q := &fakeQueue{}
	r := NewResolver(newFakeEntries(), newFakeBlobs(), cat, q)

	arts := r.Resolve(context.Background(), model.Track{ID: "id1", Name: "Yellow", Artist: "Coldplay"}, true)
	if len(arts) != 0 {
		t.Errorf("only-cache miss returned art: %v", arts)
	}
	if cat.calls != 0 {
		t.Error("only-cache mode must never reach the catalog")
	}
	if len(q.jobs) != 0 {
		t.Error("only-cache mode must not enqueue jobs")
	}
}

func TestResolveCatalogHitEnqueuesCacheJob(t *testing.T) {
	cat := &fakeCatalog{results: []catalog.Track{
		{Artists: []string{"Some Cover Band"}, Images: []catalog.Image{{Height: 1, Width: 1, URL: "wrong"}}},
		{Artists: []string{"Coldplay"}, Images: []catalog.Image{
			{Height: 640, Width: 640, URL: "https://img.test/640"},
			{Height: 300, Width: 300, URL: "https://img.test/300"},
		}},
	}}
	q := &fakeQueue{}
	entries := newFakeEntries()
	r := NewResolver(entries, newFakeBlobs(), cat, q)

	arts := r.Resolve(context.Background(), model.Track{ID: "id1", Name: "Yellow", Artist: "Coldplay"}, false)
	if len(arts) != 2 {
		t.Fatalf("got %d variants, want 2", len(arts))
	}
	if arts[0].Size != "640x640" || arts[0].DownloadURL != "https://img.test/640" {
		t.Errorf("unexpected first variant %+v", arts[0])
	}

	if len(q.jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(q.jobs))
	}
	if q.jobs[0].Name != CacheJobName {
		t.Errorf("job name = %q, want %q", q.jobs[0].Name, CacheJobName)
	}
	// The entry materializes later via the worker, not here.
	if entries.puts != 0 {
		t.Error("resolve must not write the cache entry itself")
	}
}

func TestResolveNoCatalogMatch(t *testing.T) {
	cat := &fakeCatalog{results: []catalog.Track{{Artists: []string{"Someone Else"}, Images: []catalog.Image{{URL: "u"}}}}}
	q := &fakeQueue{}
	entries := newFakeEntries()
	r := NewResolver(entries, newFakeBlobs(), cat, q)

	arts := r.Resolve(context.Background(), model.Track{ID: "id1", Name: "Yellow", Artist: "Coldplay"}, false)
	if len(arts) != 0 {
		t.Errorf("no match should yield no art, got %v", arts)
	}
	if len(q.jobs) != 0 {
		t.Error("no match must not enqueue a job")
	}
	if entries.puts != 0 {
		t.Error("no match must not create a cache entry")
	}
}
