package sources

import (
	"context"
	"fmt"
	"net/url"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// GoogleSearch runs an image query through the Custom Search JSON API.
// Needs both an API key and a search engine ID, otherwise it refuses to run.
type GoogleSearch struct {
	client  *fetch.Client
	baseURL string
}

func NewGoogleSearch(client *fetch.Client) *GoogleSearch {
	return &GoogleSearch{
		client:  client,
		baseURL: "https://www.googleapis.com/customsearch/v1",
	}
}

func (g *GoogleSearch) Name() string { return "Google Search" }

type googleSearchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

func (g *GoogleSearch) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool {
	if cfg.GoogleAPIKey == "" || cfg.GoogleCX == "" {
		sink.Progress("Google Search skipped, API key or search engine ID not configured")
		return false
	}

	query := fmt.Sprintf("%s logo filetype:png OR filetype:svg", companyName)
	searchURL := fmt.Sprintf("%s?q=%s&key=%s&cx=%s&searchType=image&num=5",
		g.baseURL, url.QueryEscape(query), url.QueryEscape(cfg.GoogleAPIKey), url.QueryEscape(cfg.GoogleCX))

	var resp googleSearchResponse
	if err := g.client.GetJSON(ctx, searchURL, nil, &resp); err != nil {
		log.WithError(err).Debug("Google image search failed")
		return false
	}

	found := false
	for _, item := range resp.Items {
		if ctx.Err() != nil {
			return found
		}
		if item.Link == "" {
			continue
		}
		data, err := g.client.Get(ctx, item.Link, nil)
		if err != nil {
			log.WithError(err).Debugf("Google result download failed: %s", item.Link)
			continue
		}

		result := models.NewCandidate(companyName, g.Name(), helpers.FormatFromURL(item.Link), 5)
		result.ImageData = data
		result.ImageURL = item.Link
		sink.Candidate(result)
		found = true
	}
	if found {
		sink.Progress("Found logos via Google image search")
	}
	return found
}
