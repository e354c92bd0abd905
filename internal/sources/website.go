package sources

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/helpers"
	"go-logo-downloader/internal/models"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// CompanyWebsite loads the company's own homepage and scores every <img>
// tag for logo-ness. Class, id and alt text mentioning "logo" weigh the
// most, a plausible logo-sized box adds a little more.
type CompanyWebsite struct {
	client *fetch.Client
}

func NewCompanyWebsite(client *fetch.Client) *CompanyWebsite {
	return &CompanyWebsite{client: client}
}

func (c *CompanyWebsite) Name() string { return "Company Website" }

type scoredImage struct {
	url   string
	score int
}

func (c *CompanyWebsite) Search(ctx context.Context, companyName string, domains []string, cfg models.SearchConfig, sink Sink) bool {
	probe := domains
	if len(probe) > 3 {
		probe = probe[:3]
	}

	found := false
	for _, domain := range probe {
		if ctx.Err() != nil {
			return found
		}
		siteURL := domain
		if !strings.HasPrefix(siteURL, "http://") && !strings.HasPrefix(siteURL, "https://") {
			siteURL = "https://" + siteURL
		}
		if c.scrapeSite(ctx, siteURL, companyName, sink) {
			found = true
			sink.Progress("Found logo on company website (" + domain + ")")
		}
	}
	return found
}

func (c *CompanyWebsite) scrapeSite(ctx context.Context, siteURL, companyName string, sink Sink) bool {
	body, err := c.client.Get(ctx, siteURL, nil)
	if err != nil {
		log.WithError(err).Debugf("Website fetch failed: %s", siteURL)
		return false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		log.WithError(err).Debugf("Website parse failed: %s", siteURL)
		return false
	}

	var images []scoredImage
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		score := scoreImageTag(sel, src)
		if score >= 20 {
			images = append(images, scoredImage{url: src, score: score})
		}
	})
	if len(images) == 0 {
		return false
	}

	sort.SliceStable(images, func(i, j int) bool { return images[i].score > images[j].score })
	if len(images) > 3 {
		images = images[:3]
	}

	found := false
	for _, img := range images {
		if ctx.Err() != nil {
			return found
		}
		imageURL := absoluteURL(siteURL, img.url)
		data, err := c.client.Get(ctx, imageURL, nil)
		if err != nil {
			log.WithError(err).Debugf("Website image download failed: %s", imageURL)
			continue
		}

		result := models.NewCandidate(companyName, c.Name(), helpers.FormatFromURL(imageURL), img.score/10)
		result.ImageData = data
		result.ImageURL = imageURL
		sink.Candidate(result)
		found = true
	}
	return found
}

func scoreImageTag(sel *goquery.Selection, src string) int {
	score := 0
	if class, _ := sel.Attr("class"); strings.Contains(strings.ToLower(class), "logo") {
		score += 20
	}
	if id, _ := sel.Attr("id"); strings.Contains(strings.ToLower(id), "logo") {
		score += 20
	}
	if alt, _ := sel.Attr("alt"); strings.Contains(strings.ToLower(alt), "logo") {
		score += 15
	}
	if strings.Contains(strings.ToLower(src), "logo") {
		score += 10
	}
	if w, h, ok := imageDimensions(sel); ok && w >= 20 && w <= 400 && h >= 20 && h <= 200 {
		score += 10
	}
	return score
}

func imageDimensions(sel *goquery.Selection) (int, int, bool) {
	widthAttr, _ := sel.Attr("width")
	heightAttr, _ := sel.Attr("height")
	w, errW := strconv.Atoi(widthAttr)
	h, errH := strconv.Atoi(heightAttr)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return w, h, true
}
