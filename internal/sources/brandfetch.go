package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
)

// Brandfetch queries the Brandfetch brand API. With an API key the
// authenticated brand endpoint is queried directly per domain; without one
// the public search endpoint resolves a domain first. PNG and SVG assets are
// fetched separately and both emitted when present.
type Brandfetch struct {
	client  *fetch.Client
	baseURL string
}

func NewBrandfetch(client *fetch.Client) *Brandfetch {
	return &Brandfetch{
		client:  client,
		baseURL: "https://api.brandfetch.io/v2",
	}
}

func (b *Brandfetch) Name() string { return "Brandfetch" }

type (
	brandfetchFormat struct {
		Format string `json:"format"`
		Src    string `json:"src"`
	}
	brandfetchLogo struct {
		Type    string             `json:"type"`
		Formats []brandfetchFormat `json:"formats"`
	}
	brandfetchBrand struct {
		Logos []brandfetchLogo `json:"logos"`
	}
	brandfetchSearchHit struct {
		Domain string `json:"domain"`
	}
)

func (b *Brandfetch) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool {
	probe := domains
	if len(probe) > 3 {
		probe = probe[:3]
	}

	var header http.Header
	authenticated := cfg.BrandfetchAPIKey != ""
	if authenticated {
		header = http.Header{"Authorization": []string{"Bearer " + cfg.BrandfetchAPIKey}}
	}

	success := false
	for _, domain := range probe {
		if ctx.Err() != nil {
			return success
		}

		brandDomain := cleanDomain(domain)
		if !authenticated {
			// Public tier: resolve the domain through the search endpoint
			// before asking for brand data.
			var hits []brandfetchSearchHit
			searchURL := fmt.Sprintf("%s/search/%s", b.baseURL, url.PathEscape(domain))
			if err := b.client.GetJSON(ctx, searchURL, nil, &hits); err != nil {
				log.WithError(err).Debugf("Brandfetch search failed for %s", domain)
				continue
			}
			if len(hits) == 0 || hits[0].Domain == "" {
				continue
			}
			brandDomain = hits[0].Domain
		}
		if brandDomain == "" {
			continue
		}

		var brand brandfetchBrand
		brandURL := fmt.Sprintf("%s/brands/%s", b.baseURL, url.PathEscape(brandDomain))
		if err := b.client.GetJSON(ctx, brandURL, header, &brand); err != nil {
			log.WithError(err).Debugf("Brandfetch brand lookup failed for %s", brandDomain)
			continue
		}

		// The authenticated tier earns a higher base score.
		pngScore, svgScore := 10, 15
		if authenticated {
			pngScore, svgScore = 15, 20
		}

		for _, logo := range brand.Logos {
			if logo.Type != "logo" {
				continue
			}
			if cfg.DownloadPNG && b.emitFormat(ctx, companyName, logo.Formats, models.FormatPNG, pngScore, sink) {
				success = true
			}
			if cfg.DownloadSVG && b.emitFormat(ctx, companyName, logo.Formats, models.FormatSVG, svgScore, sink) {
				success = true
			}
		}
	}

	return success
}

// emitFormat downloads and emits the first asset of the wanted format, if any.
func (b *Brandfetch) emitFormat(ctx context.Context, companyName string, formats []brandfetchFormat, want string, score int, sink Sink) bool {
	for _, fmtEntry := range formats {
		if fmtEntry.Format != want || fmtEntry.Src == "" {
			continue
		}
		data, err := b.client.Get(ctx, fmtEntry.Src, nil)
		if err != nil {
			log.WithError(err).Debugf("Brandfetch %s download failed", want)
			continue
		}

		result := models.NewCandidate(companyName, b.Name(), want, score)
		result.ImageData = data
		result.ImageURL = fmtEntry.Src
		sink.Candidate(result)
		sink.Progress(fmt.Sprintf("Found %s logo from Brandfetch", want))
		return true
	}
	return false
}
