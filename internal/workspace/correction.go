package workspace

import (
	"context"
	"fmt"

	"github.com/phuslu/log"

	"docverify/internal/domain"
)

// CorrectionCoordinator drives edit, save and reconcile of single fields.
type CorrectionCoordinator struct {
	s *Session
}

// EditField sets a local draft for a field of the current document. Nothing
// is sent and IsCorrected is unchanged.
func (c *CorrectionCoordinator) EditField(fieldID, value string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.current == nil {
		return domain.ErrNoCurrentDocument
	}
	if err := c.s.ledger.SetDraft(fieldID, value); err != nil {
		return err
	}
	c.s.editing = fieldID
	return nil
}

// CancelEdit drops the draft of a field.
func (c *CorrectionCoordinator) CancelEdit(fieldID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.current == nil {
		return domain.ErrNoCurrentDocument
	}
	if err := c.s.ledger.Discard(fieldID); err != nil {
		return err
	}
	if c.s.editing == fieldID {
		c.s.editing = ""
	}
	return nil
}

// SaveField persists the shown value of a field. On success the field is
// marked corrected and the document is re-fetched for its status. On
// failure the draft stays visible and nothing is rolled back.
func (c *CorrectionCoordinator) SaveField(ctx context.Context, fieldID string) (LedgerEntry, error) {
	c.s.mu.RLock()
	if c.s.current == nil {
		c.s.mu.RUnlock()
		return LedgerEntry{}, domain.ErrNoCurrentDocument
	}
	docID := c.s.current.ID
	entry, ok := c.s.ledger.Get(fieldID)
	c.s.mu.RUnlock()
	if !ok {
		return LedgerEntry{}, domain.ErrFieldNotInLedger
	}

	sent := entry.CurrentValue()
	update, err := c.s.api.UpdateField(ctx, fieldID, sent)
	if err != nil {
		c.s.fail(fmt.Sprintf("Failed to save %s", entry.FieldName), fmt.Errorf("correction.SaveField: %w", err))
		return entry, err
	}

	// The reply is merged over what was sent; a missing current_value
	// confirms the sent value.
	confirmed := update.Merge(domain.Field{CurrentValue: sent}).CurrentValue

	c.s.mu.Lock()
	stillCurrent := c.s.current != nil && c.s.current.ID == docID
	if stillCurrent {
		_ = c.s.ledger.Commit(fieldID, sent, confirmed)
		if c.s.editing == fieldID {
			c.s.editing = ""
		}
		entry, _ = c.s.ledger.Get(fieldID)
	}
	c.s.mu.Unlock()

	if !stillCurrent {
		log.Debug().Str("document_id", docID).Str("field_id", fieldID).Msg("correction.SaveField: selection changed during save")
		return entry, nil
	}

	log.Info().Str("document_id", docID).Str("field", entry.FieldName).Msg("correction.SaveField: field saved")

	doc, err := c.s.repo.FetchOne(ctx, docID)
	if err != nil {
		log.Warn().Err(err).Str("document_id", docID).Msg("correction.SaveField: refresh after save failed")
		c.s.notify(domain.NotifyWarning, fmt.Sprintf("Saved %s, but the document could not be refreshed", entry.FieldName), err)
		return entry, nil
	}

	c.s.mu.Lock()
	if c.s.current != nil && c.s.current.ID == docID {
		cur := *doc
		cur.Fields = nil
		c.s.current = &cur
		c.s.ledger.Reconcile(doc)
		if doc.FileDataURL != "" {
			c.s.preview = doc.FileDataURL
		}
		entry, _ = c.s.ledger.Get(fieldID)
	}
	c.s.mu.Unlock()

	c.s.notify(domain.NotifyInfo, fmt.Sprintf("Saved %s", entry.FieldName), nil)
	return entry, nil
}
