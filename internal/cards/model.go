package cards

import (
	"time"

	"cardify-backend/internal/llm"
)

// GenerateRequest carries one card-generation call. It lives only for the
// duration of the request.
type GenerateRequest struct {
	Prompt string
	UserID string
}

// GenerateResult is the outcome of a successful generation.
type GenerateResult struct {
	FrontImageURL  string
	InsideImageURL string
	PDFID          string
	PDFData        []byte
	Brief          llm.CardBrief
}

// StoredPDF is one registered generated document.
type StoredPDF struct {
	ID        string
	Data      []byte
	Brief     llm.CardBrief
	CreatedAt time.Time
}
