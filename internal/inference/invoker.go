package inference

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the model replied without a text
// segment in its message content.
var ErrEmptyCompletion = errors.New("no text content in model response")

// Image is a raster payload attached to a request. Format is the bare
// format name ("png", "jpeg", "gif", "webp"), not a full MIME type.
type Image struct {
	Format string
	Data   []byte
}

// Request describes a single model invocation.
type Request struct {
	Prompt      string
	Image       *Image
	MaxTokens   int32
	Temperature float32
}

// Invoker defines the interface for generative model invocations.
// Invoke returns the first text segment of the model's reply.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (string, error)
	// Close closes the invoker and releases resources
	Close() error
}
