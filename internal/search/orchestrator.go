package search

import (
	"context"
	"sync"
	"time"

	"go-logo-downloader/internal/domains"
	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"
	"go-logo-downloader/internal/sources"
	"go-logo-downloader/internal/store"

	log "github.com/sirupsen/logrus"
)

// Callbacks are invoked from the orchestrator's consumer goroutine, one at a
// time, so implementations need no locking of their own. OnComplete fires
// exactly once per Run; no OnResult follows it.
type Callbacks struct {
	OnProgress func(source, message string)
	OnResult   func(c *models.Candidate)
	OnComplete func(success bool, results []*models.Candidate)
}

// Orchestrator runs one company search across all configured sources: cache
// first, then a bounded worker pool over the adapters, scoring and
// deduplicating candidates as they stream in.
type Orchestrator struct {
	companyName string
	cfg         models.SearchConfig
	store       *store.Store
	entries     []sources.Entry
	callbacks   Callbacks

	results   []*models.Candidate
	seen      map[string]bool // blake3 content hashes
	completed bool
}

func NewOrchestrator(companyName string, cfg models.SearchConfig, st *store.Store, entries []sources.Entry, callbacks Callbacks) *Orchestrator {
	return &Orchestrator{
		companyName: companyName,
		cfg:         cfg,
		store:       st,
		entries:     entries,
		callbacks:   callbacks,
		seen:        make(map[string]bool),
	}
}

type eventKind int

const (
	eventCandidate eventKind = iota
	eventProgress
	eventSourceDone
)

type event struct {
	kind      eventKind
	candidate *models.Candidate
	desc      sources.Descriptor
	source    string
	message   string
	found     bool
}

// workerSink adapts the per-source Sink contract onto the shared event
// channel. One instance per source, so progress messages carry attribution.
type workerSink struct {
	source string
	desc   sources.Descriptor
	events chan<- event
}

func (s *workerSink) Progress(message string) {
	s.events <- event{kind: eventProgress, source: s.source, message: message}
}

func (s *workerSink) Candidate(c *models.Candidate) {
	s.events <- event{kind: eventCandidate, candidate: c, desc: s.desc, source: s.source}
}

// Run executes the search until MaxResults is reached, every source has
// finished, or ctx is cancelled. It blocks until OnComplete has fired.
func (o *Orchestrator) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if o.serveFromCache() {
		return
	}

	if len(o.entries) == 0 {
		log.Warnf("No logo sources available for %q", o.companyName)
		o.complete(len(o.results) > 0)
		return
	}

	domainList := domains.Generate(o.companyName)

	queue := make(chan sources.Entry, len(o.entries))
	for _, entry := range o.entries {
		queue <- entry
	}
	close(queue)

	events := make(chan event, 64)

	workers := o.cfg.ConcurrentSearches
	if workers > len(o.entries) {
		workers = len(o.entries)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range queue {
				if ctx.Err() != nil {
					return
				}
				sink := &workerSink{source: entry.Descriptor.Name, desc: entry.Descriptor, events: events}
				found := entry.Adapter.Search(ctx, o.companyName, domainList, o.cfg, sink)
				events <- event{kind: eventSourceDone, source: entry.Descriptor.Name, found: found}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(events)
	}()

	for ev := range events {
		switch ev.kind {
		case eventProgress:
			if !o.completed {
				o.progress(ev.source, ev.message)
			}
		case eventSourceDone:
			log.WithField("source", ev.source).Debugf("Source finished, found=%v", ev.found)
		case eventCandidate:
			if o.completed {
				continue // late arrival after early stop, drop it
			}
			o.accept(ev.candidate, ev.desc)
			if len(o.results) >= o.cfg.MaxResults && !o.cfg.SearchAllSources {
				o.complete(true)
				cancel()
			}
		}
	}

	if !o.completed {
		o.complete(len(o.results) > 0)
	}
}

// serveFromCache answers the search entirely from cached candidates when
// they alone satisfy MaxResults and the caller did not ask for a full sweep.
// Cache hits always join the result set either way.
func (o *Orchestrator) serveFromCache() bool {
	cached, err := o.store.GetFromCache(o.companyName, o.cfg.CacheExpiryDays)
	if err != nil {
		log.WithError(err).Warnf("Cache lookup failed for %q", o.companyName)
		return false
	}
	for _, c := range cached {
		if hash, ok := c.Metadata["contentHash"]; ok {
			o.seen[hash] = true
		}
		o.results = append(o.results, c)
		o.emitResult(c)
	}
	if len(cached) > 0 {
		o.progress("cache", "Loaded cached logos")
	}
	if len(o.results) >= o.cfg.MaxResults && !o.cfg.SearchAllSources {
		o.complete(true)
		return true
	}
	return false
}

// accept scores, deduplicates and persists one fresh candidate, then
// surfaces it to the caller.
func (o *Orchestrator) accept(c *models.Candidate, desc sources.Descriptor) {
	Score(c, desc)

	if len(c.ImageData) > 0 {
		hash := helpers.ContentHash(c.ImageData)
		if o.seen[hash] {
			log.WithField("source", c.Source).Debugf("Dropping duplicate image for %q", o.companyName)
			return
		}
		o.seen[hash] = true
		c.Metadata["contentHash"] = hash
	}
	c.Metadata["foundTime"] = time.Now().UTC().Format(time.RFC3339)

	if err := o.store.AddToCache(c); err != nil {
		log.WithError(err).Warnf("Failed to cache candidate from %s", c.Source)
	}

	o.results = append(o.results, c)
	o.emitResult(c)
}

func (o *Orchestrator) emitResult(c *models.Candidate) {
	if o.callbacks.OnResult != nil {
		o.callbacks.OnResult(c)
	}
}

func (o *Orchestrator) progress(source, message string) {
	log.WithField("source", source).Debug(message)
	if o.callbacks.OnProgress != nil {
		o.callbacks.OnProgress(source, message)
	}
}

// complete records the search in history and fires OnComplete. Guarded so a
// second call (early stop followed by drain finishing) is a no-op.
func (o *Orchestrator) complete(success bool) {
	if o.completed {
		return
	}
	o.completed = true

	if err := o.store.AddToHistory(o.companyName, len(o.results)); err != nil {
		log.WithError(err).Warnf("Failed to record history for %q", o.companyName)
	}
	if o.callbacks.OnComplete != nil {
		o.callbacks.OnComplete(success, o.results)
	}
}
