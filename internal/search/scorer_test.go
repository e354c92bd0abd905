package search

import (
	"testing"

	"go-logo-downloader/internal/models"
	"go-logo-downloader/internal/sources"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	desc := sources.Descriptor{Name: "SimpleIcons", BaseQuality: 80}

	tests := []struct {
		name   string
		format string
		base   int
		want   int
	}{
		{"SVG gets format bonus", models.FormatSVG, 10, 100},
		{"PNG gets no format bonus", models.FormatPNG, 10, 90},
		{"JPG gets no format bonus", models.FormatJPG, 5, 85},
		{"Zero base score", models.FormatPNG, 0, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.NewCandidate("Acme", desc.Name, tt.format, tt.base)
			Score(c, desc)
			assert.Equal(t, tt.want, c.Score)
		})
	}
}

func TestScoreAppliedOnce(t *testing.T) {
	desc := sources.Descriptor{Name: "Clearbit", BaseQuality: 75}
	c := models.NewCandidate("Acme", desc.Name, models.FormatPNG, 5)

	Score(c, desc)
	assert.Equal(t, 80, c.Score, "scoring is additive over the adapter's base score")
}
