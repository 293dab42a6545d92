package parsing

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/heic"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
)

// prepareImage normalizes an uploaded raster image for the vision call.
// Formats the inference providers accept natively (PNG, JPEG, GIF, WebP)
// pass through untouched; everything else (BMP, TIFF, HEIC) is re-encoded
// as PNG. Returns the final bytes and the bare format name to tag the
// request with.
func prepareImage(data []byte, contentType string) ([]byte, string, error) {
	if isHEICFormat(data) || isHEICMimeType(contentType) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return encodePNG(img)
	}

	format := sniffFormat(data, contentType)

	switch format {
	case "png", "jpeg", "gif", "webp":
		return data, format, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s image: %w", format, err)
	}
	return encodePNG(img)
}

// sniffFormat prefers what the bytes actually decode as over the declared
// content type. Documents routed by filename extension arrive with no
// usable MIME type, and imageFormat would otherwise default them to PNG.
func sniffFormat(data []byte, contentType string) string {
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		return format
	}
	return imageFormat(contentType)
}

func encodePNG(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), "png", nil
}

// imageFormat derives a bare raster format name from a MIME type,
// defaulting to PNG when the subtype is missing.
func imageFormat(contentType string) string {
	mime := strings.ToLower(strings.TrimSpace(contentType))

	format := "png"
	if idx := strings.Index(mime, "/"); idx >= 0 && idx+1 < len(mime) {
		format = mime[idx+1:]
	}
	if format == "jpg" {
		format = "jpeg"
	}
	return format
}

// isHEICFormat checks the ftyp box brands that identify HEIC/HEIF data.
// Phone uploads often carry a generic content type, so sniffing the bytes
// is more reliable than trusting the header.
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}
