package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/assetvault/asset-parser/internal/inference"
)

const (
	structureMaxTokens   = 1000
	structureTemperature = 0.1
)

// structureText asks the model to turn extracted text into a Record. All
// failures here are recoverable: a reply that cannot be decoded, or a
// failed invocation, yields the fallback record rather than an error.
func (p *Parser) structureText(ctx context.Context, text string) Record {
	reply, err := p.invoker.Invoke(ctx, inference.Request{
		Prompt:      buildStructurePrompt(text),
		MaxTokens:   structureMaxTokens,
		Temperature: structureTemperature,
	})
	if err != nil {
		slog.Error("Structuring invocation failed", "error", err)
		return FallbackRecord()
	}

	record, err := decodeRecord(reply)
	if err != nil {
		slog.Error("Failed to decode structuring reply", "error", err, "reply_chars", len(reply))
		return FallbackRecord()
	}

	return record
}

// decodeRecord parses the model's JSON reply. The model may wrap the
// object in a markdown code fence or surround it with prose, so decoding
// brackets out the first { to the last } before unmarshaling.
func decodeRecord(reply string) (Record, error) {
	text := strings.TrimSpace(reply)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return Record{}, fmt.Errorf("no JSON object found in reply")
	}
	text = text[start : end+1]

	var record Record
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return Record{}, fmt.Errorf("unmarshaling record: %w", err)
	}

	record.ItemName = strings.TrimSpace(record.ItemName)
	record.Vendor = strings.TrimSpace(record.Vendor)
	record.Description = strings.TrimSpace(record.Description)
	record.Date = normalizeDate(record.Date)
	record.Category = ParseCategory(string(record.Category))

	return record, nil
}

// dateLayouts are the formats accepted from the model, tried in order.
// The prompt asks for DD.MM.YYYY but models drift toward ISO dates. Only
// year-first layouts are guessed beyond that: "02/01/2024" reads as either
// day-first or US month-first, so ambiguous slash and dash dates pass
// through untouched instead of being reordered on a coin flip.
var dateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
}

// normalizeDate converts a model-supplied date to DD.MM.YYYY. Values that
// match none of the known layouts are passed through trimmed, so an odd
// but human-readable date is never silently discarded.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("02.01.2006")
		}
	}
	return s
}
