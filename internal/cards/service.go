package cards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardify-backend/internal/assemble"
	"cardify-backend/internal/imagegen"
	"cardify-backend/internal/llm"
	"cardify-backend/internal/shared/telemetry"
)

// Assembler composes the two rendered faces into the card PDF.
type Assembler interface {
	Assemble(ctx context.Context, frontURL, insideURL string) ([]byte, error)
}

// CreditLedger applies the conditional decrement against the user's remote
// credit record. It is called exactly once per successful generation and
// never on a failure path.
type CreditLedger interface {
	DecrementOne(ctx context.Context, userID string) error
}

// Service orchestrates the card-generation pipeline: validate, interpret the
// prompt, render both faces, assemble the PDF, register it, decrement the
// user's credit. Steps run strictly in order; the first failure aborts the
// request and no partial artifact is exposed.
type Service struct {
	Interpreter llm.Client
	Renderer    imagegen.Renderer
	Assembler   Assembler
	Store       PDFStore
	Ledger      CreditLedger
}

// Generate runs the pipeline for one request.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	userID := strings.TrimSpace(req.UserID)
	if prompt == "" || userID == "" {
		return GenerateResult{}, ErrInvalidInput
	}

	start := time.Now()

	brief, err := s.Interpreter.InterpretCard(ctx, prompt)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("%w: %v", ErrUpstreamModel, err)
	}

	// Inside after front; both must succeed before assembly.
	frontURL, err := s.Renderer.RenderFace(ctx, brief, imagegen.FaceFront)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("%w: %v", ErrUpstreamImage, err)
	}
	insideURL, err := s.Renderer.RenderFace(ctx, brief, imagegen.FaceInside)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("%w: %v", ErrUpstreamImage, err)
	}

	pdf, err := s.Assembler.Assemble(ctx, frontURL, insideURL)
	if err != nil {
		if errors.Is(err, assemble.ErrFetch) {
			return GenerateResult{}, fmt.Errorf("%w: %v", ErrAssetFetch, err)
		}
		return GenerateResult{}, fmt.Errorf("%w: %v", ErrAssembly, err)
	}

	id, err := s.Store.Put(ctx, brief, pdf)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("store pdf: %w", err)
	}

	// The document is already stored and stays retrievable; a ledger
	// failure here means the user was not charged for it.
	if err := s.Ledger.DecrementOne(ctx, userID); err != nil {
		telemetry.Error("cards.credit_decrement_failed", map[string]any{
			"user_id": userID,
			"pdf_id":  id,
			"error":   err.Error(),
		})
		return GenerateResult{}, fmt.Errorf("%w: %v", ErrLedger, err)
	}

	telemetry.Info("cards.generated", map[string]any{
		"user_id":     userID,
		"pdf_id":      id,
		"category":    brief.Category,
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})

	return GenerateResult{
		FrontImageURL:  frontURL,
		InsideImageURL: insideURL,
		PDFID:          id,
		PDFData:        pdf,
		Brief:          brief,
	}, nil
}

// Download returns a previously generated document by id.
func (s *Service) Download(ctx context.Context, id string) (StoredPDF, error) {
	if strings.TrimSpace(id) == "" {
		return StoredPDF{}, ErrNotFound
	}
	return s.Store.Get(ctx, id)
}
