// Package workspace keeps the operator's view of documents and fields in
// step with the remote document service.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/phuslu/log"

	"docverify/internal/domain"
	"docverify/internal/port"
)

// Session is the explicit application state of one operator: the cached
// document list, the current document with its field ledger and preview,
// the staged upload, and the field being edited. All of it is guarded by
// one lock; remote calls are made without holding it.
type Session struct {
	api       port.DocumentAPI
	notifier  port.Notifier
	confirmer port.Confirmer
	now       func() time.Time

	mu      sync.RWMutex
	repo    *Repository
	ledger  *FieldLedger
	current *domain.Document
	preview string
	staged  *StagedFile
	editing string

	extraction  *ExtractionCoordinator
	corrections *CorrectionCoordinator
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier sets where operator notifications go.
func WithNotifier(n port.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithConfirmer sets who approves deletions. Without one every deletion is
// declined.
func WithConfirmer(c port.Confirmer) Option {
	return func(s *Session) {
		if c != nil {
			s.confirmer = c
		}
	}
}

// WithListLimit caps the number of documents requested per refresh.
func WithListLimit(limit int) Option {
	return func(s *Session) {
		s.repo.limit = limit
	}
}

// WithClock overrides the notification timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates an empty session backed by api.
func NewSession(api port.DocumentAPI, opts ...Option) *Session {
	s := &Session{
		api:       api,
		notifier:  discardNotifier{},
		confirmer: declineConfirmer{},
		now:       time.Now,
		ledger:    NewFieldLedger(),
	}
	s.repo = newRepository(api, &s.mu, 0)
	s.extraction = &ExtractionCoordinator{s: s}
	s.corrections = &CorrectionCoordinator{s: s}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Documents returns the document repository.
func (s *Session) Documents() *Repository { return s.repo }

// Extraction returns the extraction coordinator.
func (s *Session) Extraction() *ExtractionCoordinator { return s.extraction }

// Corrections returns the correction coordinator.
func (s *Session) Corrections() *CorrectionCoordinator { return s.corrections }

// Refresh reloads the document list.
func (s *Session) Refresh(ctx context.Context) ([]domain.DocumentSummary, error) {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		s.fail("Could not load documents", err)
		return nil, err
	}
	return docs, nil
}

// Select makes a document current, replacing the ledger and preview and
// discarding any unsaved drafts. On failure the previous selection stays.
func (s *Session) Select(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.repo.FetchOne(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.fail("Document no longer exists", err)
		} else {
			s.fail("Could not load document", err)
		}
		return nil, err
	}

	s.mu.Lock()
	s.setCurrentLocked(doc, doc.FileDataURL)
	s.mu.Unlock()

	log.Debug().Str("document_id", doc.ID).Int("fields", len(doc.Fields)).Msg("session.Select: document selected")
	return doc, nil
}

// ClearSelection drops the current document, ledger and preview.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.clearCurrentLocked()
	s.mu.Unlock()
}

// CurrentID returns the id of the current document, or "".
func (s *Session) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// View is a consistent snapshot of the session for rendering.
type View struct {
	Documents []domain.DocumentSummary
	Current   *domain.Document
	Fields    []LedgerEntry
	Preview   string
	Staged    *StagedFile
	Editing   string
}

// View returns a snapshot taken under the session lock.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		Documents: cloneSummaries(s.repo.summaries),
		Fields:    s.ledger.Entries(),
		Preview:   s.preview,
		Editing:   s.editing,
	}
	if s.current != nil {
		cur := *s.current
		cur.Fields = nil
		v.Current = &cur
	}
	if s.staged != nil {
		staged := *s.staged
		v.Staged = &staged
	}
	return v
}

func (s *Session) setCurrentLocked(doc *domain.Document, preview string) {
	cur := *doc
	cur.Fields = nil
	s.current = &cur
	s.ledger.Load(doc)
	s.preview = preview
	s.editing = ""
}

func (s *Session) clearCurrentLocked() {
	s.current = nil
	s.ledger.Clear()
	s.preview = ""
	s.editing = ""
}

func (s *Session) notify(level domain.NotificationLevel, msg string, err error) {
	s.notifier.Notify(domain.Notification{Level: level, Message: msg, Err: err, At: s.now()})
}

// fail logs err and raises an error notification.
func (s *Session) fail(msg string, err error) {
	log.Error().Err(err).Msgf("session: %s", msg)
	s.notify(domain.NotifyError, msg, err)
}

type discardNotifier struct{}

func (discardNotifier) Notify(domain.Notification) {}
