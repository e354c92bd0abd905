package helpers

import (
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go-logo-downloader/internal/models"

	log "github.com/sirupsen/logrus"
	"lukechampine.com/blake3"
)

// ContentHash returns the hex BLAKE3 digest of an image payload. The
// orchestrator uses it to drop byte-identical logos arriving from different
// sources, and it is recorded in candidate metadata.
func ContentHash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ConvertToSlug converts a string into a filesystem-friendly slug.
func ConvertToSlug(str string) string {
	str = strings.TrimSpace(str)
	str = strings.ReplaceAll(str, " ", "_")
	str = strings.ReplaceAll(str, ":", "-")
	str = strings.ToLower(str)

	allowedChars := "0123456789abcdefghijklmnopqrstuvwxyz._-"

	var filtered strings.Builder
	for _, ch := range str {
		if strings.ContainsRune(allowedChars, ch) {
			filtered.WriteRune(ch)
		}
	}
	str = filtered.String()

	// Collapse repeated separators left behind by removed characters.
	for strings.Contains(str, "--") {
		str = strings.ReplaceAll(str, "--", "-")
	}
	for strings.Contains(str, "__") {
		str = strings.ReplaceAll(str, "__", "_")
	}
	for strings.Contains(str, "-_") || strings.Contains(str, "_-") {
		str = strings.ReplaceAll(str, "-_", "-")
		str = strings.ReplaceAll(str, "_-", "-")
	}

	return strings.Trim(str, "-_")
}

// BytesToSize converts a byte count into a human-readable string (KB, MB, GB, etc.).
func BytesToSize(bytes uint64) string {
	sizes := []string{"B", "KB", "MB", "GB", "TB"}
	if bytes == 0 {
		return "0B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	return fmt.Sprintf("%.2f%s", float64(bytes)/math.Pow(1024, float64(i)), sizes[i])
}

// FormatFromURL guesses a candidate format from a URL's file extension,
// falling back to png when the extension is absent or unknown.
func FormatFromURL(rawURL string) string {
	lower := strings.ToLower(rawURL)
	// Drop any query string before looking at the extension.
	if idx := strings.IndexAny(lower, "?#"); idx >= 0 {
		lower = lower[:idx]
	}
	switch {
	case strings.HasSuffix(lower, ".svg"):
		return models.FormatSVG
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return models.FormatJPG
	case strings.HasSuffix(lower, ".webp"):
		return models.FormatWebP
	default:
		return models.FormatPNG
	}
}

// CheckAndMakeDir ensures a directory exists, returning false on failure.
func CheckAndMakeDir(dir string) bool {
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.WithError(err).Errorf("Failed to create directory %s", dir)
		return false
	}
	return true
}

// SaveCandidate writes a candidate's image bytes to outputDir and records the
// final path on the candidate. An empty fileName derives
// "<company>_logo.<ext>" from the candidate itself.
func SaveCandidate(c *models.Candidate, outputDir, fileName string) (string, error) {
	if len(c.ImageData) == 0 {
		return "", fmt.Errorf("candidate %s has no image data to save", c.ID)
	}

	if fileName == "" {
		ext := c.FormatType
		if ext == "" {
			ext = models.FormatPNG
		}
		fileName = fmt.Sprintf("%s_logo.%s", ConvertToSlug(c.CompanyName), ext)
	}

	if !CheckAndMakeDir(outputDir) {
		return "", fmt.Errorf("failed to create output directory %s", outputDir)
	}

	filePath := filepath.Join(outputDir, fileName)
	if err := os.WriteFile(filePath, c.ImageData, 0600); err != nil {
		return "", fmt.Errorf("error writing logo file %s: %w", filePath, err)
	}

	c.FilePath = filePath
	log.Debugf("Saved %s logo (%s) to %s", c.CompanyName, BytesToSize(uint64(len(c.ImageData))), filePath)
	return filePath, nil
}
