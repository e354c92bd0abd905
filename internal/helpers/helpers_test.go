package helpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-logo-downloader/internal/models"
)

func TestConvertToSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty string", "", ""},
		{"Simple company", "Acme Corp", "acme_corp"},
		{"With colon", "Acme: Global", "acme-global"},
		{"Mixed case", "OpenAI", "openai"},
		{"Invalid characters", "We*Rule?\"Inc!", "weruleinc"},
		{"Repeated dashes", "double--dash", "double-dash"},
		{"Repeated underscores", "double__underscore", "double_underscore"},
		{"Leading/trailing spaces", "  Acme Corp  ", "acme_corp"},
		{"Leading/trailing separators", "-_Acme Corp_-_", "acme_corp"},
		{"Already valid", "valid-slug_1.0", "valid-slug_1.0"},
		{"All invalid", "!@#$%^&*()+", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertToSlug(tt.input)
			if got != tt.want {
				t.Errorf("ConvertToSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBytesToSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes uint64
		want  string
	}{
		{"Zero bytes", 0, "0B"},
		{"Bytes", 500, "500.00B"},
		{"Kilobytes", 1024, "1.00KB"},
		{"Kilobytes fractional", 1536, "1.50KB"},
		{"Megabytes", 1024 * 1024, "1.00MB"},
		{"Gigabytes", 1024 * 1024 * 1024, "1.00GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BytesToSize(tt.bytes)
			if got != tt.want {
				t.Errorf("BytesToSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"SVG", "https://cdn.example.com/logo.svg", models.FormatSVG},
		{"SVG with query", "https://cdn.example.com/logo.svg?v=2", models.FormatSVG},
		{"PNG", "https://cdn.example.com/logo.png", models.FormatPNG},
		{"JPG", "https://cdn.example.com/logo.jpg", models.FormatJPG},
		{"JPEG", "https://cdn.example.com/logo.jpeg", models.FormatJPG},
		{"WebP", "https://cdn.example.com/logo.webp", models.FormatWebP},
		{"Uppercase extension", "https://cdn.example.com/LOGO.SVG", models.FormatSVG},
		{"No extension defaults to png", "https://logo.clearbit.com/acme.com", models.FormatPNG},
		{"Fragment stripped", "https://cdn.example.com/logo.svg#icon", models.FormatSVG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatFromURL(tt.url)
			if got != tt.want {
				t.Errorf("FormatFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("image-bytes"))
	b := ContentHash([]byte("image-bytes"))
	c := ContentHash([]byte("other-bytes"))

	if a != b {
		t.Errorf("ContentHash not deterministic: %q != %q", a, b)
	}
	if a == c {
		t.Errorf("ContentHash collision for distinct inputs: %q", a)
	}
	if len(a) != 64 {
		t.Errorf("ContentHash length = %d, want 64 hex chars", len(a))
	}
}

func TestSaveCandidate(t *testing.T) {
	dir := t.TempDir()

	c := models.NewCandidate("Acme Corp", "Clearbit", models.FormatPNG, 5)
	c.ImageData = []byte("png-bytes")

	path, err := SaveCandidate(c, dir, "")
	if err != nil {
		t.Fatalf("SaveCandidate returned error: %v", err)
	}
	if filepath.Base(path) != "acme_corp_logo.png" {
		t.Errorf("derived file name = %q, want acme_corp_logo.png", filepath.Base(path))
	}
	if c.FilePath != path {
		t.Errorf("candidate FilePath = %q, want %q", c.FilePath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("saved bytes = %q, want %q", data, "png-bytes")
	}
}

func TestSaveCandidateNoImageData(t *testing.T) {
	c := models.NewCandidate("Acme Corp", "Clearbit", models.FormatPNG, 5)

	_, err := SaveCandidate(c, t.TempDir(), "")
	if err == nil || !strings.Contains(err.Error(), "no image data") {
		t.Errorf("expected no-image-data error, got %v", err)
	}
}
