package parsing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/assetvault/asset-parser/internal/inference"
)

// ErrUnsupportedType is returned when no extraction strategy applies to
// the document's content type or filename.
var ErrUnsupportedType = errors.New("unsupported content type")

// noImageTextSentinel is returned as the extracted text when the vision
// model replied without any text segment. The pipeline keeps going so the
// caller still receives a well-formed result.
const noImageTextSentinel = "Could not extract text from image"

const (
	transcribeMaxTokens   = 4000
	transcribeTemperature = 0.1
)

// rasterExtensions are the filename extensions routed to image extraction
// when the content type is not an image/* type.
var rasterExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

func isPDF(doc Document) bool {
	return doc.ContentType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(doc.Filename), ".pdf")
}

func isImage(doc Document) bool {
	if strings.HasPrefix(strings.ToLower(doc.ContentType), "image/") {
		return true
	}
	return rasterExtensions[strings.ToLower(filepath.Ext(doc.Filename))]
}

// extractText routes the document to the right extraction strategy and
// returns the raw text. An empty string with a nil error means the
// document legitimately had no extractable text.
func (p *Parser) extractText(ctx context.Context, doc Document) (string, error) {
	switch {
	case isPDF(doc):
		return extractPDFText(doc.Bytes)
	case isImage(doc):
		return p.transcribeImage(ctx, doc)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, doc.ContentType)
	}
}

// extractPDFText concatenates the text layer of every page in page order.
// An image-only PDF with a blank text layer yields an empty string; there
// is no OCR fallback.
func extractPDFText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	var text strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", n, err)
		}
		text.WriteString(pageText)
	}

	slog.Info("Extracted PDF text layer", "pages", doc.NumPage(), "chars", text.Len())
	return text.String(), nil
}

// transcribeImage sends the image to the vision model and returns its
// transcription.
func (p *Parser) transcribeImage(ctx context.Context, doc Document) (string, error) {
	data, format, err := prepareImage(doc.Bytes, doc.ContentType)
	if err != nil {
		return "", err
	}

	text, err := p.invoker.Invoke(ctx, inference.Request{
		Prompt:      transcribePrompt,
		Image:       &inference.Image{Format: format, Data: data},
		MaxTokens:   transcribeMaxTokens,
		Temperature: transcribeTemperature,
	})
	if errors.Is(err, inference.ErrEmptyCompletion) {
		slog.Warn("Vision model returned no text segment", "filename", doc.Filename)
		return noImageTextSentinel, nil
	}
	if err != nil {
		return "", fmt.Errorf("transcribing image: %w", err)
	}

	slog.Info("Transcribed image with vision model", "filename", doc.Filename, "chars", len(text))
	return text, nil
}
