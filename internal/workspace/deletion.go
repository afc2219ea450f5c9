package workspace

import (
	"context"

	"github.com/phuslu/log"

	"docverify/internal/domain"
)

// DeleteDocument removes a document after the confirmer approves. If it was
// current, the ledger and preview are cleared together with the eviction.
func (s *Session) DeleteDocument(ctx context.Context, id string) error {
	ok, err := s.confirmer.Confirm(ctx, deletePrompt(s.label(id)))
	if err != nil {
		s.fail("Could not confirm deletion", err)
		return err
	}
	if !ok {
		log.Debug().Str("document_id", id).Msg("session.DeleteDocument: declined")
		return domain.ErrDeletionCanceled
	}

	err = s.repo.Remove(ctx, id, func() {
		if s.current != nil && s.current.ID == id {
			s.clearCurrentLocked()
		}
	})
	if err != nil {
		s.fail("Failed to delete document", err)
		return err
	}

	s.notify(domain.NotifyInfo, "Document deleted", nil)
	log.Info().Str("document_id", id).Msg("session.DeleteDocument: document deleted")
	return nil
}

func (s *Session) label(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.repo.indexLocked(id); i >= 0 && s.repo.summaries[i].FileName != "" {
		return s.repo.summaries[i].FileName
	}
	return id
}

func deletePrompt(label string) string {
	return "Delete " + label + "? This cannot be undone."
}

type declineConfirmer struct{}

func (declineConfirmer) Confirm(context.Context, string) (bool, error) { return false, nil }
