package workspace_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docverify/internal/client"
	"docverify/internal/domain"
	"docverify/internal/port"
)

// --- Stage ---

func TestExtraction_Stage_RejectsUnsupportedExtensionWithoutNetwork(t *testing.T) {
	for _, name := range []string{"notes.txt", "scan.gif", "archive.pdf.zip", "noext"} {
		t.Run(name, func(t *testing.T) {
			s, api, _, notifier := setupSession()

			staged, err := s.Extraction().Stage(name, []byte("data"))

			assert.Nil(t, staged)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
			assert.Equal(t, []domain.NotificationLevel{domain.NotifyError}, notifier.Levels())
			assert.Nil(t, s.View().Staged)
			api.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
			api.AssertNotCalled(t, "ListDocuments", mock.Anything, mock.Anything)
		})
	}
}

func TestExtraction_Stage_AcceptsAllowedExtensionsCaseInsensitive(t *testing.T) {
	cases := map[string]string{
		"license.png":  "image/png",
		"SCAN.JPEG":    "image/jpeg",
		"photo.Jpg":    "image/jpeg",
		"passport.PDF": "application/pdf",
	}
	for name, contentType := range cases {
		t.Run(name, func(t *testing.T) {
			s, _, _, _ := setupSession()

			staged, err := s.Extraction().Stage(name, pngBytes)

			require.NoError(t, err)
			assert.Equal(t, contentType, staged.ContentType)
			assert.True(t, strings.HasPrefix(staged.Preview, "data:"+contentType+";base64,"))
			require.NotNil(t, s.View().Staged)
			assert.Equal(t, name, s.View().Staged.Name)
		})
	}
}

func TestExtraction_Stage_RejectsEmptyFile(t *testing.T) {
	s, _, _, _ := setupSession()

	_, err := s.Extraction().Stage("license.png", nil)

	assert.ErrorIs(t, err, domain.ErrEmptyFile)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// --- Extract ---

func TestExtraction_Extract_NothingStaged(t *testing.T) {
	s, api, _, _ := setupSession()

	doc, err := s.Extraction().Extract(context.Background())

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrNothingStaged)
	api.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestExtraction_Extract_UsesReportedDocumentID(t *testing.T) {
	s, api, _, notifier := setupSession()
	_, err := s.Extraction().Stage("license.png", pngBytes)
	require.NoError(t, err)

	api.On("Extract", mock.Anything, mock.MatchedBy(func(f port.UploadFile) bool {
		return f.Name == "license.png" && f.ContentType == "image/png" && len(f.Data) == len(pngBytes)
	})).Return(&domain.ExtractionResult{
		DocumentID:      "a",
		DocumentType:    domain.DocumentTypeDriverLicense,
		DocumentContent: map[string]string{"name": "John Doe", "dob": "1990-01-01"},
	}, nil)
	// The reported document is not at the top of the list.
	api.On("ListDocuments", mock.Anything, 0).Return([]domain.DocumentSummary{
		summary("someone-else", "other.png", 0),
		summary("a", "license.png", 1),
	}, nil)
	api.On("GetDocument", mock.Anything, "a").Return(licenseDoc("a"), nil)

	doc, err := s.Extraction().Extract(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "a", doc.ID)
	v := s.View()
	require.NotNil(t, v.Current)
	assert.Equal(t, "a", v.Current.ID)
	assert.Equal(t, "data:image/png;base64,c2VydmVy", v.Preview)
	assert.Nil(t, v.Staged)
	require.Len(t, v.Fields, 2)
	for _, e := range v.Fields {
		assert.False(t, e.IsCorrected, e.FieldName)
	}
	assert.Equal(t, []domain.NotificationLevel{domain.NotifyInfo}, notifier.Levels())
	api.AssertNotCalled(t, "GetDocument", mock.Anything, "someone-else")
}

func TestExtraction_Extract_FallsBackToNewestListed(t *testing.T) {
	s, api, _, _ := setupSession()
	_, err := s.Extraction().Stage("license.png", pngBytes)
	require.NoError(t, err)

	api.On("Extract", mock.Anything, mock.Anything).Return(&domain.ExtractionResult{
		DocumentType:    domain.DocumentTypeDriverLicense,
		DocumentContent: map[string]string{"name": "John Doe"},
	}, nil)
	api.On("ListDocuments", mock.Anything, 0).Return([]domain.DocumentSummary{
		summary("newest", "license.png", 0),
		summary("older", "older.png", 1),
	}, nil)
	api.On("GetDocument", mock.Anything, "newest").Return(licenseDoc("newest"), nil)

	doc, err := s.Extraction().Extract(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "newest", doc.ID)
	assert.Equal(t, "newest", s.CurrentID())
}

func TestExtraction_Extract_FallbackWithEmptyList(t *testing.T) {
	s, api, _, notifier := setupSession()
	_, _ = s.Extraction().Stage("license.png", pngBytes)

	api.On("Extract", mock.Anything, mock.Anything).Return(&domain.ExtractionResult{}, nil)
	api.On("ListDocuments", mock.Anything, 0).Return([]domain.DocumentSummary{}, nil)

	_, err := s.Extraction().Extract(context.Background())

	assert.ErrorIs(t, err, domain.ErrDocumentNotIdentified)
	assert.NotNil(t, s.View().Staged)
	assert.Contains(t, notifier.Levels(), domain.NotifyError)
}

func TestExtraction_Extract_KeepsLocalPreviewWhenServerHasNone(t *testing.T) {
	s, api, _, _ := setupSession()
	staged, _ := s.Extraction().Stage("license.png", pngBytes)

	doc := licenseDoc("a")
	doc.FileDataURL = ""
	api.On("Extract", mock.Anything, mock.Anything).Return(&domain.ExtractionResult{DocumentID: "a"}, nil)
	api.On("ListDocuments", mock.Anything, 0).Return([]domain.DocumentSummary{summary("a", "license.png", 0)}, nil)
	api.On("GetDocument", mock.Anything, "a").Return(doc, nil)

	_, err := s.Extraction().Extract(context.Background())

	require.NoError(t, err)
	assert.Equal(t, staged.Preview, s.View().Preview)
}

func TestExtraction_Extract_UploadFailureKeepsPreviousState(t *testing.T) {
	s, api, _, notifier := setupSession()
	api.On("GetDocument", mock.Anything, "prev").Return(licenseDoc("prev"), nil)
	_, err := s.Select(context.Background(), "prev")
	require.NoError(t, err)
	_, _ = s.Extraction().Stage("license.png", pngBytes)

	api.On("Extract", mock.Anything, mock.Anything).Return(nil, &client.RemoteError{
		Op: "client.Extract", StatusCode: 400, Message: "Invalid file type", Kind: domain.ErrServerRejected,
	})

	doc, err := s.Extraction().Extract(context.Background())

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrServerRejected)
	v := s.View()
	assert.Equal(t, "prev", v.Current.ID)
	assert.Len(t, v.Fields, 2)
	assert.NotNil(t, v.Staged, "staging survives a failed cycle")
	assert.Equal(t, []domain.NotificationLevel{domain.NotifyError}, notifier.Levels())
	api.AssertNotCalled(t, "ListDocuments", mock.Anything, mock.Anything)
}

func TestExtraction_Extract_FetchFailureKeepsPreviousState(t *testing.T) {
	s, api, _, notifier := setupSession()
	api.On("GetDocument", mock.Anything, "prev").Return(licenseDoc("prev"), nil)
	_, err := s.Select(context.Background(), "prev")
	require.NoError(t, err)
	_, _ = s.Extraction().Stage("license.png", pngBytes)

	api.On("Extract", mock.Anything, mock.Anything).Return(&domain.ExtractionResult{DocumentID: "new"}, nil)
	api.On("ListDocuments", mock.Anything, 0).Return([]domain.DocumentSummary{
		summary("new", "license.png", 0), summary("prev", "license.png", 1),
	}, nil)
	api.On("GetDocument", mock.Anything, "new").Return(nil, &client.RemoteError{
		Op: "client.GetDocument", Kind: domain.ErrServiceUnavailable, Err: errors.New("connection refused"),
	})

	_, err = s.Extraction().Extract(context.Background())

	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	v := s.View()
	assert.Equal(t, "prev", v.Current.ID)
	assert.NotNil(t, v.Staged)
	assert.Len(t, v.Documents, 2, "the refreshed list is kept")
	assert.Equal(t, []domain.NotificationLevel{domain.NotifyError}, notifier.Levels())
}

func TestExtraction_Extract_ListFailure(t *testing.T) {
	s, api, _, _ := setupSession()
	_, _ = s.Extraction().Stage("license.png", pngBytes)

	api.On("Extract", mock.Anything, mock.Anything).Return(&domain.ExtractionResult{DocumentID: "a"}, nil)
	api.On("ListDocuments", mock.Anything, 0).Return(nil, errors.New("dial tcp: refused"))

	_, err := s.Extraction().Extract(context.Background())

	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Empty(t, s.CurrentID())
	api.AssertNotCalled(t, "GetDocument", mock.Anything, mock.Anything)
}
