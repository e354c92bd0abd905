package models

import (
	"time"

	"github.com/google/uuid"
)

type (
	// Config mirrors config.toml. Flags may override individual fields after
	// loading (see cmd/root.go).
	Config struct {
		// Paths
		OutputDir    string `toml:"OutputDir"`
		DatabasePath string `toml:"DatabasePath"`
		IndexPath    string `toml:"IndexPath"`

		// Search behavior
		MaxResults       int  `toml:"MaxResults"`
		SearchAllSources bool `toml:"SearchAllSources"`
		DownloadPNG      bool `toml:"DownloadPNG"`
		DownloadSVG      bool `toml:"DownloadSVG"`

		// Network behavior
		TimeoutSec         int    `toml:"TimeoutSec"`
		ConcurrentSearches int    `toml:"ConcurrentSearches"`
		CacheExpiryDays    int    `toml:"CacheExpiryDays"`
		ProxyEnabled       bool   `toml:"ProxyEnabled"`
		ProxyURL           string `toml:"ProxyURL"`
		UserAgentRotation  bool   `toml:"UserAgentRotation"`

		// API credentials
		GoogleAPIKey     string `toml:"GoogleAPIKey"`
		GoogleCX         string `toml:"GoogleCX"`
		BingAPIKey       string `toml:"BingAPIKey"`
		BrandfetchAPIKey string `toml:"BrandfetchAPIKey"`

		// Other
		LogHTTPRequests bool `toml:"LogHTTPRequests"`
	}

	// SearchConfig is the immutable per-search view of Config. It is built
	// once when a search starts and passed by value into every adapter, so
	// nothing can mutate shared settings while workers are running.
	SearchConfig struct {
		MaxResults       int
		SearchAllSources bool
		DownloadPNG      bool
		DownloadSVG      bool

		TimeoutSec         int
		ConcurrentSearches int
		CacheExpiryDays    int
		ProxyEnabled       bool
		ProxyURL           string
		UserAgentRotation  bool

		GoogleAPIKey     string
		GoogleCX         string
		BingAPIKey       string
		BrandfetchAPIKey string
	}

	// Candidate is one discovered logo image plus its provenance and score.
	Candidate struct {
		ID          string            `json:"id"`
		CompanyName string            `json:"companyName"`
		Source      string            `json:"source"`
		FormatType  string            `json:"formatType"` // png, svg, jpg, webp
		ImageData   []byte            `json:"imageData,omitempty"`
		ImageURL    string            `json:"imageUrl,omitempty"`
		Width       int               `json:"width,omitempty"`
		Height      int               `json:"height,omitempty"`
		Score       int               `json:"score"`
		FilePath    string            `json:"filePath,omitempty"`
		Metadata    map[string]string `json:"metadata,omitempty"`
	}

	// CacheEntry is the persisted form of a Candidate. At most one entry per
	// (company, source, format) key; Timestamp refreshes on every write.
	CacheEntry struct {
		Candidate Candidate `json:"candidate"`
		Timestamp time.Time `json:"timestamp"`
	}

	// HistoryEntry records one past search, keyed by company name.
	// Repeating a search overwrites the timestamp and result count.
	HistoryEntry struct {
		CompanyName  string    `json:"companyName"`
		Timestamp    time.Time `json:"timestamp"`
		ResultsCount int       `json:"resultsCount"`
	}

	// Favorite pins one chosen candidate per company. Its lifetime is
	// independent of the cache and it never expires.
	Favorite struct {
		CompanyName string    `json:"companyName"`
		ImageData   []byte    `json:"imageData"`
		FormatType  string    `json:"formatType"`
		Timestamp   time.Time `json:"timestamp"`
	}
)

// Candidate image formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJPG  = "jpg"
	FormatWebP = "webp"
)

// NewCandidate creates a Candidate with a fresh ID and an initialized
// metadata map. The base score is the adapter's own heuristic value; source
// quality and format bonuses are added later by the scorer.
func NewCandidate(companyName, source, formatType string, score int) *Candidate {
	return &Candidate{
		ID:          uuid.NewString(),
		CompanyName: companyName,
		Source:      source,
		FormatType:  formatType,
		Score:       score,
		Metadata:    make(map[string]string),
	}
}

// SearchConfig derives the immutable per-search configuration, applying the
// same defaults LoadConfig guarantees in case the Config was built by hand.
func (c Config) SearchConfig() SearchConfig {
	sc := SearchConfig{
		MaxResults:         c.MaxResults,
		SearchAllSources:   c.SearchAllSources,
		DownloadPNG:        c.DownloadPNG,
		DownloadSVG:        c.DownloadSVG,
		TimeoutSec:         c.TimeoutSec,
		ConcurrentSearches: c.ConcurrentSearches,
		CacheExpiryDays:    c.CacheExpiryDays,
		ProxyEnabled:       c.ProxyEnabled,
		ProxyURL:           c.ProxyURL,
		UserAgentRotation:  c.UserAgentRotation,
		GoogleAPIKey:       c.GoogleAPIKey,
		GoogleCX:           c.GoogleCX,
		BingAPIKey:         c.BingAPIKey,
		BrandfetchAPIKey:   c.BrandfetchAPIKey,
	}
	if sc.MaxResults <= 0 {
		sc.MaxResults = 10
	}
	if sc.TimeoutSec <= 0 {
		sc.TimeoutSec = 15
	}
	if sc.ConcurrentSearches <= 0 {
		sc.ConcurrentSearches = 3
	}
	if sc.CacheExpiryDays <= 0 {
		sc.CacheExpiryDays = 30
	}
	return sc
}
