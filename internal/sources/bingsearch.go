package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// BingSearch queries the Bing Image Search API. Requires a subscription key.
type BingSearch struct {
	client  *fetch.Client
	baseURL string
}

func NewBingSearch(client *fetch.Client) *BingSearch {
	return &BingSearch{
		client:  client,
		baseURL: "https://api.bing.microsoft.com/v7.0/images/search",
	}
}

func (b *BingSearch) Name() string { return "Bing Search" }

type bingSearchResponse struct {
	Value []struct {
		ContentURL string `json:"contentUrl"`
	} `json:"value"`
}

func (b *BingSearch) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool {
	if cfg.BingAPIKey == "" {
		sink.Progress("Bing Search skipped, API key not configured")
		return false
	}

	query := fmt.Sprintf("%s logo", companyName)
	searchURL := fmt.Sprintf("%s?q=%s&count=5", b.baseURL, url.QueryEscape(query))
	header := http.Header{}
	header.Set("Ocp-Apim-Subscription-Key", cfg.BingAPIKey)

	var resp bingSearchResponse
	if err := b.client.GetJSON(ctx, searchURL, header, &resp); err != nil {
		log.WithError(err).Debug("Bing image search failed")
		return false
	}

	found := false
	for _, item := range resp.Value {
		if ctx.Err() != nil {
			return found
		}
		if item.ContentURL == "" {
			continue
		}
		data, err := b.client.Get(ctx, item.ContentURL, nil)
		if err != nil {
			log.WithError(err).Debugf("Bing result download failed: %s", item.ContentURL)
			continue
		}

		result := models.NewCandidate(companyName, b.Name(), helpers.FormatFromURL(item.ContentURL), 5)
		result.ImageData = data
		result.ImageURL = item.ContentURL
		sink.Candidate(result)
		found = true
	}
	if found {
		sink.Progress("Found logos via Bing image search")
	}
	return found
}
