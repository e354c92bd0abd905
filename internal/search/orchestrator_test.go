package search

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go-logo-downloader/internal/models"
	"go-logo-downloader/internal/sources"
	"go-logo-downloader/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter emits a fixed set of candidates, optionally pausing so tests
// can observe worker concurrency.
type fakeAdapter struct {
	name    string
	images  [][]byte
	format  string
	delay   time.Duration
	running *int32
	maxSeen *int32
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink sources.Sink) bool {
	if f.running != nil {
		now := atomic.AddInt32(f.running, 1)
		for {
			max := atomic.LoadInt32(f.maxSeen)
			if now <= max || atomic.CompareAndSwapInt32(f.maxSeen, max, now) {
				break
			}
		}
		defer atomic.AddInt32(f.running, -1)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return false
		}
	}
	for _, img := range f.images {
		c := models.NewCandidate(companyName, f.name, f.format, 5)
		c.ImageData = img
		c.ImageURL = "https://example.com/" + f.name + ".png"
		sink.Candidate(c)
	}
	return len(f.images) > 0
}

func entry(a *fakeAdapter, quality int) sources.Entry {
	return sources.Entry{
		Descriptor: sources.Descriptor{Name: a.name, BaseQuality: quality, Enabled: true},
		Adapter:    a,
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "logos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func baseConfig() models.SearchConfig {
	return models.Config{}.SearchConfig()
}

func runOrchestrator(t *testing.T, st *store.Store, cfg models.SearchConfig, entries []sources.Entry) (bool, []*models.Candidate) {
	t.Helper()
	var success bool
	var results []*models.Candidate
	completions := 0

	o := NewOrchestrator("Acme", cfg, st, entries, Callbacks{
		OnComplete: func(ok bool, found []*models.Candidate) {
			completions++
			success = ok
			results = found
		},
	})
	o.Run(context.Background())

	require.Equal(t, 1, completions, "OnComplete must fire exactly once")
	return success, results
}

func TestRunNoSources(t *testing.T) {
	st := openTestStore(t)

	success, results := runOrchestrator(t, st, baseConfig(), nil)

	assert.False(t, success)
	assert.Empty(t, results)

	history, err := st.GetHistory(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Acme", history[0].CompanyName)
	assert.Equal(t, 0, history[0].ResultsCount)
}

func TestRunCollectsAndScores(t *testing.T) {
	st := openTestStore(t)

	entries := []sources.Entry{
		entry(&fakeAdapter{name: "SourceA", format: models.FormatSVG, images: [][]byte{[]byte("svg-a")}}, 80),
		entry(&fakeAdapter{name: "SourceB", format: models.FormatPNG, images: [][]byte{[]byte("png-b")}}, 60),
	}

	success, results := runOrchestrator(t, st, baseConfig(), entries)

	require.True(t, success)
	require.Len(t, results, 2)

	scores := map[string]int{}
	for _, c := range results {
		scores[c.Source] = c.Score
		assert.NotEmpty(t, c.Metadata["contentHash"])
		assert.NotEmpty(t, c.Metadata["foundTime"])
	}
	assert.Equal(t, 95, scores["SourceA"], "5 base + 80 quality + 10 svg bonus")
	assert.Equal(t, 65, scores["SourceB"], "5 base + 60 quality")

	cached, err := st.GetFromCache("Acme", 0)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestRunEarlyStop(t *testing.T) {
	st := openTestStore(t)

	cfg := baseConfig()
	cfg.MaxResults = 1
	cfg.SearchAllSources = false
	cfg.ConcurrentSearches = 1

	entries := []sources.Entry{
		entry(&fakeAdapter{name: "Fast", format: models.FormatPNG, images: [][]byte{[]byte("img-1")}}, 80),
		entry(&fakeAdapter{name: "Slow", format: models.FormatPNG, images: [][]byte{[]byte("img-2")}, delay: 200 * time.Millisecond}, 60),
	}

	success, results := runOrchestrator(t, st, cfg, entries)

	assert.True(t, success)
	assert.Len(t, results, 1)
}

func TestRunDeduplicatesIdenticalImages(t *testing.T) {
	st := openTestStore(t)

	same := []byte("identical-bytes")
	entries := []sources.Entry{
		entry(&fakeAdapter{name: "SourceA", format: models.FormatPNG, images: [][]byte{same}}, 80),
		entry(&fakeAdapter{name: "SourceB", format: models.FormatPNG, images: [][]byte{same}}, 60),
	}

	cfg := baseConfig()
	cfg.SearchAllSources = true

	success, results := runOrchestrator(t, st, cfg, entries)

	assert.True(t, success)
	assert.Len(t, results, 1, "byte-identical logos collapse to one result")
}

func TestRunHonorsConcurrencyLimit(t *testing.T) {
	st := openTestStore(t)

	var running, maxSeen int32
	var entries []sources.Entry
	for _, name := range []string{"A", "B", "C", "D"} {
		entries = append(entries, entry(&fakeAdapter{
			name:    "Source" + name,
			format:  models.FormatPNG,
			images:  [][]byte{[]byte("img-" + name)},
			delay:   20 * time.Millisecond,
			running: &running,
			maxSeen: &maxSeen,
		}, 60))
	}

	cfg := baseConfig()
	cfg.SearchAllSources = true
	cfg.ConcurrentSearches = 2

	success, results := runOrchestrator(t, st, cfg, entries)

	assert.True(t, success)
	assert.Len(t, results, 4)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxSeen), int32(2))
}

func TestRunServesFromCache(t *testing.T) {
	st := openTestStore(t)

	cached := models.NewCandidate("Acme", "SourceA", models.FormatPNG, 85)
	cached.ImageData = []byte("cached-bytes")
	require.NoError(t, st.AddToCache(cached))

	cfg := baseConfig()
	cfg.MaxResults = 1

	var invoked, maxSeen int32
	live := entry(&fakeAdapter{name: "Live", format: models.FormatPNG, running: &invoked, maxSeen: &maxSeen}, 60)

	success, results := runOrchestrator(t, st, cfg, []sources.Entry{live})

	require.True(t, success)
	require.Len(t, results, 1)
	assert.Equal(t, "SourceA", results[0].Source)
	assert.Equal(t, 85, results[0].Score, "cache hits are not re-scored")
	assert.Zero(t, atomic.LoadInt32(&maxSeen), "a satisfied cache lookup skips the network entirely")
}
