// Package sources contains the logo source adapters. Every adapter probes
// one external origin (a CDN, a brand API, a search engine, or plain web
// scraping) behind the same contract: stream zero or more candidates through
// a Sink, swallow every transport failure, and report only a final ok flag.
package sources

import (
	"context"
	"net/url"
	"strings"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// Descriptor is one static registry row describing a source.
type Descriptor struct {
	Name        string
	Priority    int // tie-break weight for adapter ordering, not scoring
	BaseQuality int // added to every candidate's score by the scorer
	Enabled     bool
}

// DefaultDescriptors is the static source registry, highest priority first
// per source where it matters for dispatch order.
var DefaultDescriptors = []Descriptor{
	{Name: "SimpleIcons", Priority: 5, BaseQuality: 80, Enabled: true},
	{Name: "Brandfetch", Priority: 10, BaseQuality: 90, Enabled: true},
	{Name: "Clearbit", Priority: 8, BaseQuality: 75, Enabled: true},
	{Name: "Wikipedia", Priority: 7, BaseQuality: 85, Enabled: true},
	{Name: "BrandDB", Priority: 6, BaseQuality: 70, Enabled: true},
	{Name: "CompanyWebsite", Priority: 9, BaseQuality: 85, Enabled: true},
	{Name: "SocialMedia", Priority: 4, BaseQuality: 75, Enabled: true},
	{Name: "GoogleSearch", Priority: 3, BaseQuality: 65, Enabled: true},
	{Name: "BingSearch", Priority: 2, BaseQuality: 60, Enabled: true},
	{Name: "DuckDuckGo", Priority: 1, BaseQuality: 60, Enabled: true},
	{Name: "VectorDB", Priority: 5, BaseQuality: 80, Enabled: true},
}

// Sink receives candidates and progress messages from a running adapter.
// Candidates must be reported as soon as they are produced, not buffered
// until the adapter finishes.
type Sink interface {
	Progress(message string)
	Candidate(c *models.Candidate)
}

// Adapter is implemented by every logo source. Search must tag each emitted
// candidate with the adapter's own source name, must never propagate
// transport errors, and returns true only if at least one candidate was
// emitted. Implementations check ctx at their I/O boundaries so an
// early-stopped search abandons them promptly.
type Adapter interface {
	Name() string
	Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool
}

// factories binds each registry name to a concrete constructor. New sources
// are added here at compile time; there is no dynamic lookup.
var factories = map[string]func(client *fetch.Client) Adapter{
	"SimpleIcons":    func(c *fetch.Client) Adapter { return NewSimpleIcons(c) },
	"Brandfetch":     func(c *fetch.Client) Adapter { return NewBrandfetch(c) },
	"Clearbit":       func(c *fetch.Client) Adapter { return NewClearbit(c) },
	"Wikipedia":      func(c *fetch.Client) Adapter { return NewWikipedia(c) },
	"CompanyWebsite": func(c *fetch.Client) Adapter { return NewCompanyWebsite(c) },
	"GoogleSearch":   func(c *fetch.Client) Adapter { return NewGoogleSearch(c) },
	"BingSearch":     func(c *fetch.Client) Adapter { return NewBingSearch(c) },
	"DuckDuckGo":     func(c *fetch.Client) Adapter { return NewDuckDuckGo(c) },
	"BrandDB":        func(c *fetch.Client) Adapter { return NewStub("BrandDB") },
	"SocialMedia":    func(c *fetch.Client) Adapter { return NewStub("SocialMedia") },
	"VectorDB":       func(c *fetch.Client) Adapter { return NewStub("VectorDB") },
}

// Entry pairs a registry descriptor with its constructed adapter.
type Entry struct {
	Descriptor Descriptor
	Adapter    Adapter
}

// Build constructs adapters for every enabled descriptor. Descriptors
// without a registered factory are skipped with a warning rather than
// failing the search.
func Build(client *fetch.Client, descriptors []Descriptor) []Entry {
	var entries []Entry
	for _, desc := range descriptors {
		if !desc.Enabled {
			log.Debugf("Source %s is disabled, skipping", desc.Name)
			continue
		}
		factory, ok := factories[desc.Name]
		if !ok {
			log.Warnf("No adapter registered for source %s, skipping", desc.Name)
			continue
		}
		entries = append(entries, Entry{Descriptor: desc, Adapter: factory(client)})
	}
	return entries
}

// cleanDomain reduces a domain-ish string to a bare registrable host:
// scheme, path, port and a leading www. are stripped. Returns "" when the
// input has no dot and therefore cannot be a domain.
func cleanDomain(domain string) string {
	d := strings.TrimSpace(strings.ToLower(domain))
	if d == "" {
		return ""
	}
	if strings.Contains(d, "://") {
		if u, err := url.Parse(d); err == nil && u.Host != "" {
			d = u.Host
		}
	}
	if idx := strings.IndexAny(d, "/?#"); idx >= 0 {
		d = d[:idx]
	}
	if idx := strings.Index(d, ":"); idx >= 0 {
		d = d[:idx]
	}
	d = strings.TrimPrefix(d, "www.")
	if !strings.Contains(d, ".") {
		return ""
	}
	return d
}

// absoluteURL resolves a possibly-relative image src against the page URL.
func absoluteURL(pageURL, src string) string {
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
