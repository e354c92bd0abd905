package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// Wikipedia scrapes the encyclopedic route: search API to find the article,
// then the article's image list filtered for logo-ish titles, then the image
// info endpoint for the file URL, then the download itself. Stops at the
// first logo it lands.
type Wikipedia struct {
	client  *fetch.Client
	baseURL string
}

func NewWikipedia(client *fetch.Client) *Wikipedia {
	return &Wikipedia{
		client:  client,
		baseURL: "https://en.wikipedia.org/w/api.php",
	}
}

func (w *Wikipedia) Name() string { return "Wikipedia" }

type (
	wikiSearchResponse struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	wikiImagesResponse struct {
		Query struct {
			Pages map[string]struct {
				Images []struct {
					Title string `json:"title"`
				} `json:"images"`
			} `json:"pages"`
		} `json:"query"`
	}
	wikiImageInfoResponse struct {
		Query struct {
			Pages map[string]struct {
				ImageInfo []struct {
					URL string `json:"url"`
				} `json:"imageinfo"`
			} `json:"pages"`
		} `json:"query"`
	}
)

func (w *Wikipedia) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool {
	pageTitle, ok := w.findPage(ctx, companyName)
	if !ok {
		return false
	}

	imageTitle, ok := w.findLogoImage(ctx, pageTitle)
	if !ok {
		return false
	}

	imageURL, ok := w.resolveImageURL(ctx, imageTitle)
	if !ok {
		return false
	}

	data, err := w.client.Get(ctx, imageURL, nil)
	if err != nil {
		log.WithError(err).Debugf("Wikipedia image download failed: %s", imageURL)
		return false
	}

	result := models.NewCandidate(companyName, w.Name(), helpers.FormatFromURL(imageURL), 10)
	result.ImageData = data
	result.ImageURL = imageURL
	sink.Candidate(result)
	sink.Progress("Found logo from Wikipedia")
	return true
}

func (w *Wikipedia) findPage(ctx context.Context, companyName string) (string, bool) {
	searchURL := fmt.Sprintf("%s?action=query&list=search&srsearch=%s&format=json",
		w.baseURL, url.QueryEscape(companyName))

	var resp wikiSearchResponse
	if err := w.client.GetJSON(ctx, searchURL, nil, &resp); err != nil {
		log.WithError(err).Debug("Wikipedia page search failed")
		return "", false
	}
	if len(resp.Query.Search) == 0 {
		return "", false
	}
	return resp.Query.Search[0].Title, true
}

func (w *Wikipedia) findLogoImage(ctx context.Context, pageTitle string) (string, bool) {
	pageURL := fmt.Sprintf("%s?action=query&prop=images&titles=%s&format=json",
		w.baseURL, url.QueryEscape(pageTitle))

	var resp wikiImagesResponse
	if err := w.client.GetJSON(ctx, pageURL, nil, &resp); err != nil {
		log.WithError(err).Debugf("Wikipedia image list failed for %s", pageTitle)
		return "", false
	}

	for _, page := range resp.Query.Pages {
		for _, img := range page.Images {
			lower := strings.ToLower(img.Title)
			if strings.Contains(lower, "logo") || strings.Contains(lower, "icon") {
				return img.Title, true
			}
		}
	}
	return "", false
}

func (w *Wikipedia) resolveImageURL(ctx context.Context, imageTitle string) (string, bool) {
	infoURL := fmt.Sprintf("%s?action=query&prop=imageinfo&iiprop=url&titles=%s&format=json",
		w.baseURL, url.QueryEscape(imageTitle))

	var resp wikiImageInfoResponse
	if err := w.client.GetJSON(ctx, infoURL, nil, &resp); err != nil {
		log.WithError(err).Debugf("Wikipedia image info failed for %s", imageTitle)
		return "", false
	}

	for _, page := range resp.Query.Pages {
		if len(page.ImageInfo) > 0 && page.ImageInfo[0].URL != "" {
			return page.ImageInfo[0].URL, true
		}
	}
	return "", false
}
