package sources

import (
	"context"
	"fmt"
	"strings"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// SimpleIcons looks up SVG icons in the Simple Icons repository on the
// jsDelivr CDN. Lookups are exact slug matches, so three name variants are
// probed: no-spaces, hyphenated, and acronym.
type SimpleIcons struct {
	client  *fetch.Client
	baseURL string
}

func NewSimpleIcons(client *fetch.Client) *SimpleIcons {
	return &SimpleIcons{
		client:  client,
		baseURL: "https://cdn.jsdelivr.net/npm/simple-icons@v9/icons",
	}
}

func (s *SimpleIcons) Name() string { return "SimpleIcons" }

func (s *SimpleIcons) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool {
	lower := strings.ToLower(companyName)
	words := strings.Fields(lower)

	var acronym strings.Builder
	for _, w := range words {
		acronym.WriteByte(w[0])
	}

	variations := []string{
		strings.ReplaceAll(lower, " ", ""),
		strings.ReplaceAll(lower, " ", "-"),
		acronym.String(),
	}

	success := false
	seen := make(map[string]bool)
	for _, slug := range variations {
		if ctx.Err() != nil {
			return success
		}

		// Slugs may only contain alphanumerics and hyphens.
		var b strings.Builder
		for _, ch := range slug {
			if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' {
				b.WriteRune(ch)
			}
		}
		slug = b.String()
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		iconURL := fmt.Sprintf("%s/%s.svg", s.baseURL, slug)
		svgContent, err := s.client.Get(ctx, iconURL, nil)
		if err != nil {
			log.WithError(err).Debugf("Simple Icons slug %s not found", slug)
			continue
		}

		result := models.NewCandidate(companyName, s.Name(), models.FormatSVG, 10)
		result.ImageData = svgContent
		result.ImageURL = iconURL
		sink.Candidate(result)
		sink.Progress("Found logo in Simple Icons repository")
		success = true
	}

	return success
}
