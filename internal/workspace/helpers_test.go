package workspace_test

import (
	"time"

	"docverify/internal/domain"
	"docverify/internal/workspace"
	"docverify/mocks"
)

func setupSession() (*workspace.Session, *mocks.MockDocumentAPI, *mocks.MockConfirmer, *mocks.RecordingNotifier) {
	api := new(mocks.MockDocumentAPI)
	confirmer := new(mocks.MockConfirmer)
	notifier := new(mocks.RecordingNotifier)
	s := workspace.NewSession(api,
		workspace.WithNotifier(notifier),
		workspace.WithConfirmer(confirmer),
	)
	return s, api, confirmer, notifier
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func summary(id, name string, age time.Duration) domain.DocumentSummary {
	return domain.DocumentSummary{
		ID:           id,
		DocumentType: domain.DocumentTypeDriverLicense,
		FileName:     name,
		UploadDate:   domain.NewTimestamp(baseTime.Add(-age)),
		LastModified: domain.NewTimestamp(baseTime.Add(-age)),
		Status:       domain.DocumentStatusExtracted,
	}
}

// licenseDoc is document A of the extraction scenario: two uncorrected fields.
func licenseDoc(id string) *domain.Document {
	return &domain.Document{
		ID:           id,
		DocumentType: domain.DocumentTypeDriverLicense,
		FileName:     "license.png",
		UploadDate:   domain.NewTimestamp(baseTime),
		LastModified: domain.NewTimestamp(baseTime),
		Status:       domain.DocumentStatusExtracted,
		FileDataURL:  "data:image/png;base64,c2VydmVy",
		Fields: map[string]domain.Field{
			"name": {ID: id + "-f-name", FieldName: "name", OriginalValue: "John Doe", CurrentValue: "John Doe"},
			"dob":  {ID: id + "-f-dob", FieldName: "dob", OriginalValue: "1990-01-01", CurrentValue: "1990-01-01"},
		},
	}
}

func entryByName(v workspace.View, name string) (workspace.LedgerEntry, bool) {
	for _, e := range v.Fields {
		if e.FieldName == name {
			return e, true
		}
	}
	return workspace.LedgerEntry{}, false
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
