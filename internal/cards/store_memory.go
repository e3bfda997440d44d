package cards

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"cardify-backend/internal/llm"
	"cardify-backend/internal/shared/telemetry"
)

// DefaultTTL is how long a generated document stays retrievable.
const DefaultTTL = time.Hour

// MemoryStoreOptions configures a MemoryStore.
type MemoryStoreOptions struct {
	// TTL overrides DefaultTTL when positive.
	TTL time.Duration
	// MirrorDir, when set, receives an on-disk copy of every document as
	// <dir>/<id>.pdf. Mirror files are removed on eviction.
	MirrorDir string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// MemoryStore is the in-process PDFStore. Put, Get and Sweep share a single
// mutex so eviction never races a read into returning stale bytes.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]StoredPDF
	ttl       time.Duration
	mirrorDir string
	now       func() time.Time
}

// NewMemoryStore constructs a MemoryStore. The mirror directory is created
// up front if configured; a failure there disables the mirror rather than
// failing requests.
func NewMemoryStore(opts MemoryStoreOptions) *MemoryStore {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	mirrorDir := opts.MirrorDir
	if mirrorDir != "" {
		if err := os.MkdirAll(mirrorDir, 0o755); err != nil {
			telemetry.Error("cards.mirror_dir_unavailable", map[string]any{
				"dir":   mirrorDir,
				"error": err.Error(),
			})
			mirrorDir = ""
		}
	}
	return &MemoryStore{
		entries:   make(map[string]StoredPDF),
		ttl:       ttl,
		mirrorDir: mirrorDir,
		now:       now,
	}
}

// Put registers the document and writes the optional disk mirror.
func (s *MemoryStore) Put(ctx context.Context, brief llm.CardBrief, pdf []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	data := make([]byte, len(pdf))
	copy(data, pdf)

	entry := StoredPDF{
		ID:        id,
		Data:      data,
		Brief:     brief,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()

	if s.mirrorDir != "" {
		if err := os.WriteFile(s.mirrorPath(id), data, 0o644); err != nil {
			telemetry.Error("cards.mirror_write_failed", map[string]any{
				"pdf_id": id,
				"error":  err.Error(),
			})
		}
	}

	return id, nil
}

// Get returns the stored document. Expiry is defined by age, not by sweep
// cadence: an entry past its TTL is evicted here even if the sweeper has not
// run yet.
func (s *MemoryStore) Get(ctx context.Context, id string) (StoredPDF, error) {
	if err := ctx.Err(); err != nil {
		return StoredPDF{}, err
	}

	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && s.now().Sub(entry.CreatedAt) > s.ttl {
		delete(s.entries, id)
		s.mu.Unlock()
		s.removeMirror(id)
		return StoredPDF{}, ErrNotFound
	}
	s.mu.Unlock()

	if !ok {
		return StoredPDF{}, ErrNotFound
	}

	// Callers own the returned bytes; the stored copy stays private.
	data := make([]byte, len(entry.Data))
	copy(data, entry.Data)
	entry.Data = data
	return entry, nil
}

// Sweep evicts every entry older than the TTL and removes its mirror file.
func (s *MemoryStore) Sweep(now time.Time) int {
	var expired []string

	s.mu.Lock()
	for id, entry := range s.entries {
		if now.Sub(entry.CreatedAt) > s.ttl {
			delete(s.entries, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.removeMirror(id)
	}
	if len(expired) > 0 {
		telemetry.Info("cards.sweep", map[string]any{"evicted": len(expired)})
	}
	return len(expired)
}

// StartSweeper runs Sweep on the given interval until the returned stop
// function is called.
func (s *MemoryStore) StartSweeper(interval time.Duration) func() {
	if interval <= 0 {
		interval = DefaultTTL
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Sweep(s.now())
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

func (s *MemoryStore) mirrorPath(id string) string {
	return filepath.Join(s.mirrorDir, id+".pdf")
}

func (s *MemoryStore) removeMirror(id string) {
	if s.mirrorDir == "" {
		return
	}
	if err := os.Remove(s.mirrorPath(id)); err != nil && !os.IsNotExist(err) {
		telemetry.Error("cards.mirror_remove_failed", map[string]any{
			"pdf_id": id,
			"error":  err.Error(),
		})
	}
}

var _ PDFStore = (*MemoryStore)(nil)
