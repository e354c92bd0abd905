package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-logo-downloader/internal/database"
	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// Key prefixes for the three record families sharing one bitcask database.
const (
	cachePrefix    = "cache/"
	historyPrefix  = "history/"
	favoritePrefix = "favorite/"
)

// ErrNoImageData is returned when a caller tries to persist a candidate whose
// image bytes were never fetched.
var ErrNoImageData = errors.New("candidate has no image data")

// Store persists logo candidates, search history and favorites. Cache entries
// are upsert-keyed by (company, source, format); history and favorites by
// company alone.
type Store struct {
	db *database.DB
}

// Open opens (or creates) the store at the given database path.
func Open(path string) (*Store, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func companyKey(companyName string) string {
	return helpers.ConvertToSlug(companyName)
}

func cacheKey(companyName, source, formatType string) []byte {
	return []byte(cachePrefix + companyKey(companyName) + "/" + helpers.ConvertToSlug(source) + "/" + formatType)
}

// AddToCache upserts a candidate under its (company, source, format) key,
// refreshing the entry timestamp so repeated discovery resets the expiry
// clock. Candidates without image bytes are rejected.
func (s *Store) AddToCache(c *models.Candidate) error {
	if len(c.ImageData) == 0 {
		return ErrNoImageData
	}

	entry := models.CacheEntry{
		Candidate: *c,
		Timestamp: time.Now().UTC(),
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error marshalling cache entry for %s: %w", c.CompanyName, err)
	}

	key := cacheKey(c.CompanyName, c.Source, c.FormatType)
	if err := s.db.Put(key, value); err != nil {
		return fmt.Errorf("error caching %s/%s/%s: %w", c.CompanyName, c.Source, c.FormatType, err)
	}
	log.Debugf("Cached candidate %s (%s, %s)", c.CompanyName, c.Source, c.FormatType)
	return nil
}

// GetFromCache returns all cached candidates for a company younger than
// maxAgeDays, ordered by score descending. A maxAgeDays <= 0 disables the
// age filter.
func (s *Store) GetFromCache(companyName string, maxAgeDays int) ([]*models.Candidate, error) {
	var cutoff time.Time
	if maxAgeDays > 0 {
		cutoff = time.Now().UTC().AddDate(0, 0, -maxAgeDays)
	}
	prefix := []byte(cachePrefix + companyKey(companyName) + "/")

	var results []*models.Candidate
	err := s.db.Scan(prefix, func(key, value []byte) error {
		var entry models.CacheEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			log.WithError(err).Warnf("Skipping undecodable cache entry %s", string(key))
			return nil
		}
		if entry.Timestamp.Before(cutoff) {
			return nil
		}
		c := entry.Candidate
		results = append(results, &c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning cache for %s: %w", companyName, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// ClearCache deletes cache entries older than maxAgeDays, or every cache
// entry when maxAgeDays <= 0. It returns the number of records removed.
// History and favorites are never touched.
func (s *Store) ClearCache(maxAgeDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -maxAgeDays)

	// Collect first; deleting while scanning would deadlock on the DB lock.
	var stale [][]byte
	err := s.db.Scan([]byte(cachePrefix), func(key, value []byte) error {
		if maxAgeDays <= 0 {
			stale = append(stale, append([]byte(nil), key...))
			return nil
		}
		var entry models.CacheEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			// Undecodable entries are purged along with expired ones.
			stale = append(stale, append([]byte(nil), key...))
			return nil
		}
		if entry.Timestamp.Before(cutoff) {
			stale = append(stale, append([]byte(nil), key...))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error scanning cache for purge: %w", err)
	}

	removed := 0
	for _, key := range stale {
		if err := s.db.Delete(key); err != nil && !errors.Is(err, database.ErrNotFound) {
			log.WithError(err).Warnf("Failed to purge cache entry %s", string(key))
			continue
		}
		removed++
	}
	return removed, nil
}

// EachCacheEntry calls fn for every cache record. Used by the index rebuild.
func (s *Store) EachCacheEntry(fn func(key string, entry models.CacheEntry) error) error {
	return s.db.Scan([]byte(cachePrefix), func(key, value []byte) error {
		var entry models.CacheEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			log.WithError(err).Warnf("Skipping undecodable cache entry %s", string(key))
			return nil
		}
		return fn(string(key), entry)
	})
}

// AddToHistory upserts the single history record for a company with a fresh
// timestamp and the latest result count.
func (s *Store) AddToHistory(companyName string, resultsCount int) error {
	entry := models.HistoryEntry{
		CompanyName:  companyName,
		Timestamp:    time.Now().UTC(),
		ResultsCount: resultsCount,
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error marshalling history entry for %s: %w", companyName, err)
	}
	if err := s.db.Put([]byte(historyPrefix+companyKey(companyName)), value); err != nil {
		return fmt.Errorf("error recording history for %s: %w", companyName, err)
	}
	return nil
}

// GetHistory returns past searches, newest first, capped at limit when
// limit > 0.
func (s *Store) GetHistory(limit int) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.Scan([]byte(historyPrefix), func(key, value []byte) error {
		var entry models.HistoryEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			log.WithError(err).Warnf("Skipping undecodable history entry %s", string(key))
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning history: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// AddToFavorites pins one candidate for a company. Upsert: adding again
// replaces the stored bytes and format.
func (s *Store) AddToFavorites(c *models.Candidate) error {
	if len(c.ImageData) == 0 {
		return ErrNoImageData
	}

	fav := models.Favorite{
		CompanyName: c.CompanyName,
		ImageData:   c.ImageData,
		FormatType:  c.FormatType,
		Timestamp:   time.Now().UTC(),
	}
	value, err := json.Marshal(fav)
	if err != nil {
		return fmt.Errorf("error marshalling favorite for %s: %w", c.CompanyName, err)
	}
	if err := s.db.Put([]byte(favoritePrefix+companyKey(c.CompanyName)), value); err != nil {
		return fmt.Errorf("error saving favorite for %s: %w", c.CompanyName, err)
	}
	return nil
}

// GetFavorite returns the pinned logo for a company, or database.ErrNotFound.
func (s *Store) GetFavorite(companyName string) (models.Favorite, error) {
	value, err := s.db.Get([]byte(favoritePrefix + companyKey(companyName)))
	if err != nil {
		return models.Favorite{}, err
	}
	var fav models.Favorite
	if err := json.Unmarshal(value, &fav); err != nil {
		return models.Favorite{}, fmt.Errorf("error unmarshalling favorite for %s: %w", companyName, err)
	}
	return fav, nil
}

// GetFavorites returns all pinned logos, newest first.
func (s *Store) GetFavorites() ([]models.Favorite, error) {
	var favs []models.Favorite
	err := s.db.Scan([]byte(favoritePrefix), func(key, value []byte) error {
		var fav models.Favorite
		if err := json.Unmarshal(value, &fav); err != nil {
			log.WithError(err).Warnf("Skipping undecodable favorite %s", string(key))
			return nil
		}
		favs = append(favs, fav)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning favorites: %w", err)
	}

	sort.Slice(favs, func(i, j int) bool {
		return favs[i].Timestamp.After(favs[j].Timestamp)
	})
	return favs, nil
}

// RemoveFromFavorites deletes the pinned logo for a company. Removing an
// absent favorite is not an error.
func (s *Store) RemoveFromFavorites(companyName string) error {
	err := s.db.Delete([]byte(favoritePrefix + companyKey(companyName)))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("error removing favorite for %s: %w", companyName, err)
	}
	return nil
}
