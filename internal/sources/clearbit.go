package sources

import (
	"context"
	"fmt"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// Clearbit fetches from the Clearbit Logo API, which serves a PNG for an
// exact domain match and a 404 otherwise. Every generated domain is probed.
type Clearbit struct {
	client  *fetch.Client
	baseURL string
}

func NewClearbit(client *fetch.Client) *Clearbit {
	return &Clearbit{
		client:  client,
		baseURL: "https://logo.clearbit.com",
	}
}

func (c *Clearbit) Name() string { return "Clearbit" }

func (c *Clearbit) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool {
	success := false
	for _, domain := range domains {
		if ctx.Err() != nil {
			return success
		}

		clean := cleanDomain(domain)
		if clean == "" {
			continue
		}

		logoURL := fmt.Sprintf("%s/%s?size=512", c.baseURL, clean)
		data, err := c.client.Get(ctx, logoURL, nil)
		if err != nil {
			log.WithError(err).Debugf("Clearbit miss for domain %s", clean)
			continue
		}

		result := models.NewCandidate(companyName, c.Name(), models.FormatPNG, 5)
		result.ImageData = data
		result.ImageURL = logoURL
		sink.Candidate(result)
		sink.Progress(fmt.Sprintf("Found logo from Clearbit (%s)", clean))
		success = true
	}

	return success
}
