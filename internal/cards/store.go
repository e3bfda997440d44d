package cards

import (
	"context"
	"time"

	"cardify-backend/internal/llm"
)

// PDFStore is the process-wide registry of generated documents. Entries
// expire by age; nothing survives a restart.
type PDFStore interface {
	// Put registers the document under a freshly generated id.
	Put(ctx context.Context, brief llm.CardBrief, pdf []byte) (string, error)
	// Get returns the stored document, or ErrNotFound when the id is
	// unknown or the entry's age exceeds the TTL.
	Get(ctx context.Context, id string) (StoredPDF, error)
	// Sweep evicts every entry older than the TTL at the given instant and
	// reports how many were removed. Sweeping is idempotent.
	Sweep(now time.Time) int
}
