package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for greeting-card brief generation.
type Client interface {
	InterpretCard(ctx context.Context, prompt string) (CardBrief, error)
}

// CardBrief is the structured interpretation of a free-text card prompt.
// Fields the model did not fill stay empty; consumers must tolerate absence.
type CardBrief struct {
	Category      string `json:"category"`
	Occasion      string `json:"occasion"`
	Recipients    string `json:"recipients"`
	FrontText     string `json:"front_page_text"`
	InsideMessage string `json:"inside_message"`
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is a stub implementation used when no provider key is set.
type PlaceholderClient struct{}

// InterpretCard returns ErrNotConfigured.
func (PlaceholderClient) InterpretCard(ctx context.Context, prompt string) (CardBrief, error) {
	_ = ctx
	_ = prompt
	return CardBrief{}, ErrNotConfigured
}
