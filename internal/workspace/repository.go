package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/phuslu/log"

	"docverify/internal/domain"
	"docverify/internal/port"
)

// Repository caches the document list of the remote service. Every change
// to the cache follows a successful remote call; nothing is mutated locally
// on speculation.
type Repository struct {
	api   port.DocumentAPI
	mu    *sync.RWMutex
	limit int

	summaries []domain.DocumentSummary
}

func newRepository(api port.DocumentAPI, mu *sync.RWMutex, limit int) *Repository {
	return &Repository{api: api, mu: mu, limit: limit}
}

// ListAll refreshes the cache from the service, most recent first. On
// failure the previous list is kept and the error wraps ErrServiceUnavailable.
func (r *Repository) ListAll(ctx context.Context) ([]domain.DocumentSummary, error) {
	docs, err := r.api.ListDocuments(ctx, r.limit)
	if err != nil {
		if !errors.Is(err, domain.ErrServiceUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
		}
		return nil, fmt.Errorf("repository.ListAll: %w", err)
	}

	fresh := make([]domain.DocumentSummary, len(docs))
	copy(fresh, docs)

	r.mu.Lock()
	r.summaries = fresh
	r.mu.Unlock()

	return cloneSummaries(fresh), nil
}

// FetchOne loads the full record of a document and refreshes its summary in
// the cache. A document missing on the service yields an error wrapping
// domain.ErrNotFound; the cached summary, if any, is left for the next
// ListAll to drop.
func (r *Repository) FetchOne(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := r.api.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repository.FetchOne: %w", err)
	}
	if doc.ID == "" {
		doc.ID = id
	}

	r.mu.Lock()
	r.upsertLocked(doc.Summary())
	r.mu.Unlock()

	return doc, nil
}

// Remove deletes a document on the service and evicts it from the cache.
// onEvict, when non-nil, runs under the same lock as the eviction so that
// dependent state is cleared in one step. On failure nothing changes.
func (r *Repository) Remove(ctx context.Context, id string, onEvict func()) error {
	if err := r.api.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("repository.Remove: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.summaries {
		if s.ID == id {
			r.summaries = append(r.summaries[:i:i], r.summaries[i+1:]...)
			break
		}
	}
	if onEvict != nil {
		onEvict()
	}
	log.Debug().Str("document_id", id).Msg("repository.Remove: evicted")
	return nil
}

// Cached returns the current cached list without a remote call.
func (r *Repository) Cached() []domain.DocumentSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSummaries(r.summaries)
}

// Contains reports whether id is in the cached list.
func (r *Repository) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexLocked(id) >= 0
}

// newest returns the head of the cached list.
func (r *Repository) newest() (domain.DocumentSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.summaries) == 0 {
		return domain.DocumentSummary{}, false
	}
	return r.summaries[0], true
}

func (r *Repository) indexLocked(id string) int {
	for i, s := range r.summaries {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// upsertLocked replaces the summary in place, or inserts it by upload date.
func (r *Repository) upsertLocked(sum domain.DocumentSummary) {
	if i := r.indexLocked(sum.ID); i >= 0 {
		r.summaries[i] = sum
		return
	}
	pos := len(r.summaries)
	for i, s := range r.summaries {
		if !sum.UploadDate.Before(s.UploadDate.Time) {
			pos = i
			break
		}
	}
	r.summaries = append(r.summaries, domain.DocumentSummary{})
	copy(r.summaries[pos+1:], r.summaries[pos:])
	r.summaries[pos] = sum
}

func cloneSummaries(in []domain.DocumentSummary) []domain.DocumentSummary {
	out := make([]domain.DocumentSummary, len(in))
	copy(out, in)
	return out
}
