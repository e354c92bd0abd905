package sources

import (
	"context"

	"go-logo-downloader/internal/models"
)

// Stub fills a registry slot for sources that have a priority ranking but
// no working backend yet. Always reports no results.
type Stub struct {
	name string
}

func NewStub(name string) *Stub { return &Stub{name: name} }

func (s *Stub) Name() string { return s.name }

func (s *Stub) Search(_ context.Context, _ string, _ []string, _ models.SearchConfig, _ Sink) bool {
	return false
}
