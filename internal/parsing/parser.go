package parsing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/assetvault/asset-parser/internal/inference"
)

// previewLimit bounds the extracted-text preview attached to results.
const previewLimit = 500

// Parser runs the document-to-record pipeline: raw bytes in, a Result
// envelope out. It holds no mutable state, so a single Parser may serve
// concurrent requests.
type Parser struct {
	invoker inference.Invoker
}

// New creates a new Parser backed by the given model invoker
func New(invoker inference.Invoker) *Parser {
	return &Parser{invoker: invoker}
}

// Parse extracts text from the document and structures it into a Record.
// The returned Result is always well formed: Data carries the fallback
// record on any failure, and nothing panics past this boundary.
func (p *Parser) Parse(ctx context.Context, doc Document) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while parsing document", "filename", doc.Filename, "panic", r)
			result = Result{
				Success: false,
				Error:   fmt.Sprintf("parsing document: %v", r),
				Data:    FallbackRecord(),
			}
		}
	}()

	slog.Info("Parsing document", "filename", doc.Filename, "content_type", doc.ContentType)

	text, err := p.extractText(ctx, doc)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			slog.Error("Unsupported document type", "filename", doc.Filename, "content_type", doc.ContentType)
		} else {
			slog.Error("Text extraction failed", "filename", doc.Filename, "error", err)
		}
		return Result{
			Success: false,
			Error:   err.Error(),
			Data:    FallbackRecord(),
		}
	}

	if text == "" {
		slog.Error("No text extracted from document", "filename", doc.Filename)
		return Result{
			Success: false,
			Error:   "no text extracted",
			Data:    FallbackRecord(),
		}
	}

	return Result{
		Success:       true,
		Data:          p.structureText(ctx, text),
		ExtractedText: preview(text),
	}
}

// preview truncates text to previewLimit characters, marking truncation
// with an ellipsis. The limit counts runes, not bytes, so multibyte text
// is never cut mid-sequence.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit]) + "..."
	}
	return text
}
