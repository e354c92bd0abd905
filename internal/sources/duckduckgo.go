package sources

import (
	"context"
	"net/url"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// DuckDuckGo uses the unofficial i.js image endpoint. No key needed, which
// makes it the fallback web search when neither Google nor Bing is configured.
type DuckDuckGo struct {
	client  *fetch.Client
	baseURL string
}

func NewDuckDuckGo(client *fetch.Client) *DuckDuckGo {
	return &DuckDuckGo{
		client:  client,
		baseURL: "https://duckduckgo.com/i.js",
	}
}

func (d *DuckDuckGo) Name() string { return "DuckDuckGo" }

type duckDuckGoResponse struct {
	Results []struct {
		Image string `json:"image"`
	} `json:"results"`
}

func (d *DuckDuckGo) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool {
	term := companyName + " official logo"
	if cfg.DownloadSVG {
		term += " filetype:svg"
	} else if cfg.DownloadPNG {
		term += " filetype:png"
	}

	searchURL := d.baseURL + "?q=" + url.QueryEscape(term) + "&o=json"

	var resp duckDuckGoResponse
	if err := d.client.GetJSON(ctx, searchURL, nil, &resp); err != nil {
		log.WithError(err).Debug("DuckDuckGo image search failed")
		return false
	}

	results := resp.Results
	if len(results) > 5 {
		results = results[:5]
	}

	found := false
	for _, item := range results {
		if ctx.Err() != nil {
			return found
		}
		if item.Image == "" {
			continue
		}
		data, err := d.client.Get(ctx, item.Image, nil)
		if err != nil {
			log.WithError(err).Debugf("DuckDuckGo result download failed: %s", item.Image)
			continue
		}

		result := models.NewCandidate(companyName, d.Name(), helpers.FormatFromURL(item.Image), 5)
		result.ImageData = data
		result.ImageURL = item.Image
		sink.Candidate(result)
		found = true
	}
	if found {
		sink.Progress("Found logos via DuckDuckGo image search")
	}
	return found
}
