package store

import (
	"errors"
	"path/filepath"
	"testing"

	"go-logo-downloader/internal/database"
	"go-logo-downloader/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "logos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testCandidate(company, source, format string, score int) *models.Candidate {
	c := models.NewCandidate(company, source, format, score)
	c.ImageData = []byte(company + "/" + source + "/" + format)
	return c
}

func TestAddToCacheRejectsEmptyImage(t *testing.T) {
	st := openTestStore(t)

	c := models.NewCandidate("Acme", "Clearbit", models.FormatPNG, 5)
	err := st.AddToCache(c)
	assert.ErrorIs(t, err, ErrNoImageData)
}

func TestCacheUpsertByCompanySourceFormat(t *testing.T) {
	st := openTestStore(t)

	first := testCandidate("Acme", "Clearbit", models.FormatPNG, 5)
	require.NoError(t, st.AddToCache(first))

	// Same key, new bytes and score. Must replace, not append.
	second := testCandidate("Acme", "Clearbit", models.FormatPNG, 80)
	second.ImageData = []byte("newer-bytes")
	require.NoError(t, st.AddToCache(second))

	cached, err := st.GetFromCache("Acme", 30)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, 80, cached[0].Score)
	assert.Equal(t, []byte("newer-bytes"), cached[0].ImageData)
}

func TestGetFromCacheSortedByScore(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.AddToCache(testCandidate("Acme", "Clearbit", models.FormatPNG, 40)))
	require.NoError(t, st.AddToCache(testCandidate("Acme", "SimpleIcons", models.FormatSVG, 100)))
	require.NoError(t, st.AddToCache(testCandidate("Acme", "Wikipedia", models.FormatPNG, 70)))

	// A different company must not leak into the scan.
	require.NoError(t, st.AddToCache(testCandidate("Globex", "Clearbit", models.FormatPNG, 99)))

	cached, err := st.GetFromCache("Acme", 30)
	require.NoError(t, err)
	require.Len(t, cached, 3)
	assert.Equal(t, "SimpleIcons", cached[0].Source)
	assert.Equal(t, "Wikipedia", cached[1].Source)
	assert.Equal(t, "Clearbit", cached[2].Source)
}

func TestClearCacheAll(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.AddToCache(testCandidate("Acme", "Clearbit", models.FormatPNG, 40)))
	require.NoError(t, st.AddToCache(testCandidate("Acme", "Wikipedia", models.FormatPNG, 70)))
	require.NoError(t, st.AddToHistory("Acme", 2))

	removed, err := st.ClearCache(0)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	cached, err := st.GetFromCache("Acme", 0)
	require.NoError(t, err)
	assert.Empty(t, cached)

	// History survives a cache purge.
	history, err := st.GetHistory(0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestClearCacheKeepsFreshEntries(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.AddToCache(testCandidate("Acme", "Clearbit", models.FormatPNG, 40)))

	removed, err := st.ClearCache(30)
	require.NoError(t, err)
	assert.Zero(t, removed, "entries written just now are inside any positive expiry window")

	cached, err := st.GetFromCache("Acme", 30)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestHistoryUpsertPerCompany(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.AddToHistory("Acme", 3))
	require.NoError(t, st.AddToHistory("Acme", 7))
	require.NoError(t, st.AddToHistory("Globex", 1))

	history, err := st.GetHistory(0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	counts := map[string]int{}
	for _, entry := range history {
		counts[entry.CompanyName] = entry.ResultsCount
	}
	assert.Equal(t, 7, counts["Acme"], "repeated searches keep only the latest count")
	assert.Equal(t, 1, counts["Globex"])
}

func TestGetHistoryLimit(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.AddToHistory("Acme", 1))
	require.NoError(t, st.AddToHistory("Globex", 2))
	require.NoError(t, st.AddToHistory("Initech", 3))

	history, err := st.GetHistory(2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestFavoritesLifecycle(t *testing.T) {
	st := openTestStore(t)

	c := testCandidate("Acme", "SimpleIcons", models.FormatSVG, 100)
	require.NoError(t, st.AddToFavorites(c))

	fav, err := st.GetFavorite("Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", fav.CompanyName)
	assert.Equal(t, models.FormatSVG, fav.FormatType)
	assert.Equal(t, c.ImageData, fav.ImageData)

	// Upsert replaces the pinned image.
	replacement := testCandidate("Acme", "Clearbit", models.FormatPNG, 80)
	require.NoError(t, st.AddToFavorites(replacement))

	favs, err := st.GetFavorites()
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, models.FormatPNG, favs[0].FormatType)

	require.NoError(t, st.RemoveFromFavorites("Acme"))
	_, err = st.GetFavorite("Acme")
	assert.True(t, errors.Is(err, database.ErrNotFound))

	// Removing again is a no-op, not an error.
	assert.NoError(t, st.RemoveFromFavorites("Acme"))
}

func TestAddToFavoritesRejectsEmptyImage(t *testing.T) {
	st := openTestStore(t)

	c := models.NewCandidate("Acme", "Clearbit", models.FormatPNG, 5)
	assert.ErrorIs(t, st.AddToFavorites(c), ErrNoImageData)
}
