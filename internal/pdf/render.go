package pdf

import (
	"bytes"
	"encoding/base64"
	"image/jpeg"
	"log/slog"

	"github.com/gen2brain/go-fitz"
)

// jpegQuality is the compression quality used for rendered page images.
const jpegQuality = 85

// Resolution records the pixel dimensions and render scale of the first
// rendered page.
type Resolution struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
}

// RenderInfo describes the outcome of a page rendering pass.
type RenderInfo struct {
	RenderedPageCount int         `json:"rendered_page_count"`
	MaxPages          int         `json:"max_pages"`
	ImageResolution   *Resolution `json:"image_resolution"`
}

// Render rasterizes up to the configured number of pages as base64-encoded
// JPEG images, in page order. Rendering failures are logged and produce a
// partial (possibly empty) result; they are never fatal.
func (e *Extractor) Render(data []byte) ([]string, RenderInfo) {
	info := RenderInfo{MaxPages: e.maxPages}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		slog.Warn("failed to open PDF for page rendering", "error", err)
		return nil, info
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages > e.maxPages {
		pages = e.maxPages
	}

	// go-fitz renders at 72 DPI for scale 1.0.
	dpi := 72 * e.scale

	var images []string
	for i := 0; i < pages; i++ {
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			slog.Warn("failed to render PDF page", "page", i+1, "error", err)
			continue
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			slog.Warn("failed to encode rendered page", "page", i+1, "error", err)
			continue
		}
		images = append(images, base64.StdEncoding.EncodeToString(buf.Bytes()))

		if info.ImageResolution == nil {
			bounds := img.Bounds()
			info.ImageResolution = &Resolution{
				Width:  bounds.Dx(),
				Height: bounds.Dy(),
				Scale:  e.scale,
			}
		}
	}

	info.RenderedPageCount = len(images)
	return images, info
}
