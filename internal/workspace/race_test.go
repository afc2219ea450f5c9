package workspace_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/client"
	"docverify/internal/domain"
	"docverify/internal/port"
	"docverify/internal/workspace"
)

// fakeService is an in-memory document service whose extraction responses
// can be held back to interleave two extractions.
type fakeService struct {
	mu       sync.Mutex
	reportID bool
	seq      int
	docs     []*domain.Document
	hold     map[string]chan struct{}
	created  chan string
}

func newFakeService(reportID bool) *fakeService {
	return &fakeService{
		reportID: reportID,
		hold:     map[string]chan struct{}{},
		created:  make(chan string, 8),
	}
}

var _ port.DocumentAPI = (*fakeService)(nil)

func (f *fakeService) ListDocuments(_ context.Context, limit int) ([]domain.DocumentSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.DocumentSummary, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d.Summary())
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeService) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, &client.RemoteError{Op: "fake.GetDocument", StatusCode: 404, Kind: domain.ErrNotFound}
}

func (f *fakeService) Extract(ctx context.Context, file port.UploadFile) (*domain.ExtractionResult, error) {
	f.mu.Lock()
	f.seq++
	id := fmt.Sprintf("doc-%d", f.seq)
	doc := &domain.Document{
		ID:           id,
		DocumentType: domain.DocumentTypePassport,
		FileName:     file.Name,
		UploadDate:   domain.NewTimestamp(baseTime.Add(time.Duration(f.seq) * time.Minute)),
		Status:       domain.DocumentStatusExtracted,
		Fields: map[string]domain.Field{
			"full_name": {ID: id + "-full_name", FieldName: "full_name", OriginalValue: file.Name, CurrentValue: file.Name},
		},
	}
	f.docs = append([]*domain.Document{doc}, f.docs...)
	hold := f.hold[file.Name]
	f.mu.Unlock()

	f.created <- id
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	result := &domain.ExtractionResult{
		DocumentType:    doc.DocumentType,
		DocumentContent: map[string]string{"full_name": file.Name},
	}
	if f.reportID {
		result.DocumentID = id
	}
	return result, nil
}

func (f *fakeService) UpdateField(context.Context, string, string) (*domain.FieldUpdate, error) {
	return nil, &client.RemoteError{Op: "fake.UpdateField", StatusCode: 405, Kind: domain.ErrServerRejected}
}

func (f *fakeService) DeleteDocument(context.Context, string) error {
	return nil
}

// runInterleaved starts an extraction of first.png, lets a second extraction
// of second.png complete while the first response is held, then releases
// the first. It returns the documents each call made current.
func runInterleaved(t *testing.T, svc *fakeService) (first, second *domain.Document, s *workspace.Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	release := make(chan struct{})
	svc.hold["first.png"] = release
	s = workspace.NewSession(svc)

	_, err := s.Extraction().Stage("first.png", pngBytes)
	require.NoError(t, err)

	type outcome struct {
		doc *domain.Document
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		doc, err := s.Extraction().Extract(ctx)
		done <- outcome{doc, err}
	}()

	select {
	case <-svc.created:
	case <-ctx.Done():
		t.Fatal("first extraction never reached the service")
	}

	_, err = s.Extraction().Stage("second.png", pngBytes)
	require.NoError(t, err)
	second, err = s.Extraction().Extract(ctx)
	require.NoError(t, err)
	<-svc.created

	close(release)
	res := <-done
	require.NoError(t, res.err)
	return res.doc, second, s
}

// Without a reported id, both extractions resolve to the newest listed
// document: the first call ends up showing the second upload.
func TestExtraction_BackToBack_FallbackIdentifiesWrongDocument(t *testing.T) {
	svc := newFakeService(false)

	first, second, s := runInterleaved(t, svc)

	assert.Equal(t, "doc-2", second.ID)
	assert.Equal(t, "doc-2", first.ID, "first extraction picked up the second upload")
	assert.Equal(t, "second.png", first.FileName)
	assert.Equal(t, "doc-2", s.CurrentID())
	assert.True(t, s.Documents().Contains("doc-1"), "the first upload exists but was never selected")
}

// With the id reported by the service each call resolves its own document.
func TestExtraction_BackToBack_ReportedIDResolvesEachUpload(t *testing.T) {
	svc := newFakeService(true)

	first, second, s := runInterleaved(t, svc)

	assert.Equal(t, "doc-2", second.ID)
	assert.Equal(t, "doc-1", first.ID)
	assert.Equal(t, "first.png", first.FileName)
	// The last call to finish wins the selection.
	assert.Equal(t, "doc-1", s.CurrentID())
	assert.Nil(t, s.View().Staged)
}
