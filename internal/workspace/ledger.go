package workspace

import (
	"sort"

	"github.com/phuslu/log"

	"docverify/internal/domain"
)

// LedgerEntry is the client's view of one field: the value last confirmed by
// the service plus an optional unsaved draft.
type LedgerEntry struct {
	ID            string
	FieldName     string
	OriginalValue string
	Committed     string
	Draft         *string
	IsCorrected   bool
}

// CurrentValue is what the operator sees: the draft when one exists.
func (e LedgerEntry) CurrentValue() string {
	if e.Draft != nil {
		return *e.Draft
	}
	return e.Committed
}

// Dirty reports whether the entry has an unsaved draft.
func (e LedgerEntry) Dirty() bool {
	return e.Draft != nil && *e.Draft != e.Committed
}

func (e LedgerEntry) clone() LedgerEntry {
	if e.Draft != nil {
		d := *e.Draft
		e.Draft = &d
	}
	return e
}

// FieldLedger holds the fields of the current document. It is not safe for
// concurrent use; Session guards it.
type FieldLedger struct {
	documentID string
	order      []string
	entries    map[string]*LedgerEntry
}

// NewFieldLedger returns an empty ledger.
func NewFieldLedger() *FieldLedger {
	return &FieldLedger{entries: map[string]*LedgerEntry{}}
}

// Load replaces the ledger with doc's fields, discarding drafts.
func (l *FieldLedger) Load(doc *domain.Document) {
	l.Clear()
	if doc == nil {
		return
	}
	l.documentID = doc.ID
	for _, name := range doc.FieldNames() {
		f := doc.Fields[name]
		id := f.ID
		if id == "" {
			id = name
		}
		l.entries[id] = &LedgerEntry{
			ID:            id,
			FieldName:     name,
			OriginalValue: f.OriginalValue,
			Committed:     f.CurrentValue,
			IsCorrected:   f.IsCorrected,
		}
		l.order = append(l.order, id)
	}
}

// Clear empties the ledger.
func (l *FieldLedger) Clear() {
	l.documentID = ""
	l.order = nil
	l.entries = map[string]*LedgerEntry{}
}

// DocumentID returns the document the ledger reflects, or "".
func (l *FieldLedger) DocumentID() string {
	return l.documentID
}

// Len returns the number of fields.
func (l *FieldLedger) Len() int {
	return len(l.order)
}

// Get returns a copy of the entry for fieldID.
func (l *FieldLedger) Get(fieldID string) (LedgerEntry, bool) {
	e, ok := l.entries[fieldID]
	if !ok {
		return LedgerEntry{}, false
	}
	return e.clone(), true
}

// ByName returns a copy of the entry with the given field name.
func (l *FieldLedger) ByName(name string) (LedgerEntry, bool) {
	for _, id := range l.order {
		if e := l.entries[id]; e.FieldName == name {
			return e.clone(), true
		}
	}
	return LedgerEntry{}, false
}

// Entries returns copies of all entries ordered by field name.
func (l *FieldLedger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entries[id].clone())
	}
	return out
}

// SetDraft records an unsaved value. IsCorrected is untouched.
func (l *FieldLedger) SetDraft(fieldID, value string) error {
	e, ok := l.entries[fieldID]
	if !ok {
		return domain.ErrFieldNotInLedger
	}
	v := value
	e.Draft = &v
	return nil
}

// Discard drops the draft of a field.
func (l *FieldLedger) Discard(fieldID string) error {
	e, ok := l.entries[fieldID]
	if !ok {
		return domain.ErrFieldNotInLedger
	}
	e.Draft = nil
	return nil
}

// Commit records a value the service acknowledged. The field is marked
// corrected whatever the service returned; the original value never changes.
// The draft is dropped only if it still holds the value that was sent.
func (l *FieldLedger) Commit(fieldID, sent, confirmed string) error {
	e, ok := l.entries[fieldID]
	if !ok {
		return domain.ErrFieldNotInLedger
	}
	e.Committed = confirmed
	e.IsCorrected = true
	if e.Draft != nil && *e.Draft == sent {
		e.Draft = nil
	}
	return nil
}

// Reconcile merges a re-fetched copy of the ledger's document. Committed
// values follow the service, drafts and original values are kept, and
// IsCorrected never goes back to false. Fields unknown to the ledger are
// ignored.
func (l *FieldLedger) Reconcile(doc *domain.Document) {
	if doc == nil || doc.ID != l.documentID {
		return
	}
	byName := make(map[string]*LedgerEntry, len(l.entries))
	for _, e := range l.entries {
		byName[e.FieldName] = e
	}
	names := make([]string, 0, len(doc.Fields))
	for name := range doc.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := doc.Fields[name]
		e, ok := l.entries[f.ID]
		if !ok {
			e, ok = byName[name]
		}
		if !ok {
			log.Warn().Str("document_id", doc.ID).Str("field", name).Msg("ledger.Reconcile: ignoring unknown field")
			continue
		}
		e.Committed = f.CurrentValue
		e.IsCorrected = e.IsCorrected || f.IsCorrected
	}
}
