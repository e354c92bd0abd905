package search

import (
	"go-logo-downloader/internal/models"
	"go-logo-downloader/internal/sources"
)

const svgBonus = 10

// Score folds the source's base quality into the candidate's own heuristic
// score, with a flat bonus for vector formats. Applied exactly once per
// candidate, when it arrives from a worker; cache hits were scored when
// first stored and are not re-scored.
func Score(c *models.Candidate, desc sources.Descriptor) {
	c.Score += desc.BaseQuality
	if c.FormatType == models.FormatSVG {
		c.Score += svgBonus
	}
}
