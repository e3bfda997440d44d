package imagegen

import (
	"context"
	"errors"
	"fmt"

	"cardify-backend/internal/llm"
)

// Face identifies which side of the card is being rendered.
type Face string

const (
	FaceFront  Face = "front"
	FaceInside Face = "inside"
)

// Renderer abstracts image-generation providers. RenderFace blocks until the
// provider reports completion and returns a reachable URL for the image.
type Renderer interface {
	RenderFace(ctx context.Context, brief llm.CardBrief, face Face) (string, error)
}

// ProgressFunc receives best-effort provider progress messages. It must never
// influence the render result.
type ProgressFunc func(face Face, message string)

// PromptFor builds the deterministic generation prompt for a face.
func PromptFor(brief llm.CardBrief, face Face) string {
	if face == FaceInside {
		return fmt.Sprintf("Generate a inside page of the greeting card with text '%s'."+
			"The text should be clearly visible and without mistakes and nicely integrated into the design. "+
			"Include a decorative border or background suitable for %s.", brief.InsideMessage, brief.Occasion)
	}
	return fmt.Sprintf("Generate a front page of the greeting card with text '%s'. "+
		"The design should be festive and appropriate for %s. "+
		"Include decorative elements and a border typical of greeting cards.", brief.FrontText, brief.Occasion)
}

// ErrNotConfigured is returned by the placeholder renderer.
var ErrNotConfigured = errors.New("image renderer not configured")

// PlaceholderRenderer is a stub implementation used when no provider key is set.
type PlaceholderRenderer struct{}

// RenderFace returns ErrNotConfigured.
func (PlaceholderRenderer) RenderFace(ctx context.Context, brief llm.CardBrief, face Face) (string, error) {
	_ = ctx
	_ = brief
	_ = face
	return "", ErrNotConfigured
}
