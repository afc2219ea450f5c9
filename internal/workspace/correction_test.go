package workspace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docverify/internal/client"
	"docverify/internal/domain"
	"docverify/internal/workspace"
	"docverify/mocks"
)

func selectLicense(t *testing.T, s *workspace.Session, api *mocks.MockDocumentAPI, id string) {
	t.Helper()
	api.On("GetDocument", mock.Anything, id).Return(licenseDoc(id), nil).Once()
	_, err := s.Select(context.Background(), id)
	require.NoError(t, err)
}

// --- EditField ---

func TestCorrection_EditField_RoundTripWithoutNetwork(t *testing.T) {
	s, api, _, _ := setupSession()
	selectLicense(t, s, api, "a")

	require.NoError(t, s.Corrections().EditField("a-f-dob", "1990-01-02"))

	v := s.View()
	dob, ok := entryByName(v, "dob")
	require.True(t, ok)
	assert.Equal(t, "1990-01-02", dob.CurrentValue())
	assert.False(t, dob.IsCorrected)
	assert.Equal(t, "a-f-dob", v.Editing)
	api.AssertNotCalled(t, "UpdateField", mock.Anything, mock.Anything, mock.Anything)
}

func TestCorrection_EditField_NoCurrentDocument(t *testing.T) {
	s, _, _, _ := setupSession()

	err := s.Corrections().EditField("a-f-dob", "x")

	assert.ErrorIs(t, err, domain.ErrNoCurrentDocument)
}

func TestCorrection_CancelEdit(t *testing.T) {
	s, api, _, _ := setupSession()
	selectLicense(t, s, api, "a")
	require.NoError(t, s.Corrections().EditField("a-f-name", "Jane"))

	require.NoError(t, s.Corrections().CancelEdit("a-f-name"))

	v := s.View()
	name, _ := entryByName(v, "name")
	assert.Equal(t, "John Doe", name.CurrentValue())
	assert.Empty(t, v.Editing)
}

func TestCorrection_SelectingAnotherDocumentDropsDrafts(t *testing.T) {
	s, api, _, _ := setupSession()
	selectLicense(t, s, api, "a")
	require.NoError(t, s.Corrections().EditField("a-f-name", "Jane"))

	selectLicense(t, s, api, "b")
	selectLicense(t, s, api, "a")

	name, _ := entryByName(s.View(), "name")
	assert.Equal(t, "John Doe", name.CurrentValue())
	assert.False(t, name.Dirty())
}

// --- SaveField ---

func TestCorrection_SaveField_LicenseScenario(t *testing.T) {
	s, api, _, notifier := setupSession()
	selectLicense(t, s, api, "a")

	require.NoError(t, s.Corrections().EditField("a-f-dob", "1990-01-02"))
	// The service answers with is_corrected false; the client marks it anyway.
	api.On("UpdateField", mock.Anything, "a-f-dob", "1990-01-02").Return(&domain.FieldUpdate{
		ID: "a-f-dob", OriginalValue: strPtr("1990-01-01"), CurrentValue: strPtr("1990-01-02"), IsCorrected: boolPtr(false),
	}, nil)
	refreshed := licenseDoc("a")
	refreshed.Status = domain.DocumentStatusVerified
	refreshed.Fields["dob"] = domain.Field{ID: "a-f-dob", FieldName: "dob", OriginalValue: "1990-01-01", CurrentValue: "1990-01-02", IsCorrected: true}
	api.On("GetDocument", mock.Anything, "a").Return(refreshed, nil).Once()

	entry, err := s.Corrections().SaveField(context.Background(), "a-f-dob")

	require.NoError(t, err)
	assert.True(t, entry.IsCorrected)
	v := s.View()
	dob, _ := entryByName(v, "dob")
	assert.Equal(t, "1990-01-02", dob.CurrentValue())
	assert.True(t, dob.IsCorrected)
	assert.False(t, dob.Dirty())
	name, _ := entryByName(v, "name")
	assert.False(t, name.IsCorrected)
	assert.Equal(t, domain.DocumentStatusVerified, v.Current.Status)
	assert.Empty(t, v.Editing)
	assert.Equal(t, domain.NotifyInfo, notifier.Levels()[len(notifier.Levels())-1])
}

func TestCorrection_SaveField_NetworkErrorKeepsDraft(t *testing.T) {
	s, api, _, notifier := setupSession()
	selectLicense(t, s, api, "a")
	require.NoError(t, s.Corrections().EditField("a-f-dob", "1990-01-02"))

	api.On("UpdateField", mock.Anything, "a-f-dob", "1990-01-02").Return(nil, &client.RemoteError{
		Op: "client.UpdateField", Kind: domain.ErrServiceUnavailable, Err: errors.New("connection reset by peer"),
	})

	_, err := s.Corrections().SaveField(context.Background(), "a-f-dob")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	dob, _ := entryByName(s.View(), "dob")
	assert.Equal(t, "1990-01-02", dob.CurrentValue())
	assert.False(t, dob.IsCorrected)
	assert.Equal(t, []domain.NotificationLevel{domain.NotifyError}, notifier.Levels())
	api.AssertNumberOfCalls(t, "UpdateField", 1)
}

func TestCorrection_SaveField_OriginalValueNeverChanges(t *testing.T) {
	s, api, _, _ := setupSession()
	selectLicense(t, s, api, "a")
	api.On("GetDocument", mock.Anything, "a").Return(licenseDoc("a"), nil)

	for _, value := range []string{"1990-01-02", "1990-01-03", "1990-01-01", "02/01/1990"} {
		require.NoError(t, s.Corrections().EditField("a-f-dob", value))
		api.On("UpdateField", mock.Anything, "a-f-dob", value).Return(&domain.FieldUpdate{
			ID: "a-f-dob", OriginalValue: strPtr("server-says-otherwise"), CurrentValue: strPtr(value),
		}, nil).Once()

		_, err := s.Corrections().SaveField(context.Background(), "a-f-dob")
		require.NoError(t, err)

		dob, _ := entryByName(s.View(), "dob")
		assert.Equal(t, "1990-01-01", dob.OriginalValue)
		assert.True(t, dob.IsCorrected)
	}
}

func TestCorrection_SaveField_RefreshFailureStillCommits(t *testing.T) {
	s, api, _, notifier := setupSession()
	selectLicense(t, s, api, "a")
	require.NoError(t, s.Corrections().EditField("a-f-name", "Jane Doe"))

	api.On("UpdateField", mock.Anything, "a-f-name", "Jane Doe").Return(&domain.FieldUpdate{
		ID: "a-f-name", CurrentValue: strPtr("Jane Doe"), IsCorrected: boolPtr(true),
	}, nil)
	api.On("GetDocument", mock.Anything, "a").Return(nil, &client.RemoteError{
		Op: "client.GetDocument", StatusCode: 503, Kind: domain.ErrServiceUnavailable,
	}).Once()

	entry, err := s.Corrections().SaveField(context.Background(), "a-f-name")

	require.NoError(t, err)
	assert.True(t, entry.IsCorrected)
	assert.Equal(t, "Jane Doe", entry.CurrentValue())
	assert.Equal(t, []domain.NotificationLevel{domain.NotifyWarning}, notifier.Levels())
}

func TestCorrection_SaveField_Preconditions(t *testing.T) {
	s, api, _, _ := setupSession()

	_, err := s.Corrections().SaveField(context.Background(), "a-f-dob")
	assert.ErrorIs(t, err, domain.ErrNoCurrentDocument)

	selectLicense(t, s, api, "a")
	_, err = s.Corrections().SaveField(context.Background(), "b-f-dob")
	assert.ErrorIs(t, err, domain.ErrFieldNotInLedger)

	api.AssertNotCalled(t, "UpdateField", mock.Anything, mock.Anything, mock.Anything)
}

func TestCorrection_SaveField_EmptyServerPayloadUsesSentValue(t *testing.T) {
	s, api, _, _ := setupSession()
	selectLicense(t, s, api, "a")
	require.NoError(t, s.Corrections().EditField("a-f-dob", "1990-01-02"))

	api.On("UpdateField", mock.Anything, "a-f-dob", "1990-01-02").Return(&domain.FieldUpdate{}, nil)
	api.On("GetDocument", mock.Anything, "a").Return(nil, errors.New("unreachable")).Once()

	entry, err := s.Corrections().SaveField(context.Background(), "a-f-dob")

	require.NoError(t, err)
	assert.Equal(t, "1990-01-02", entry.Committed)
	assert.True(t, entry.IsCorrected)
}

func TestCorrection_SaveField_ReplyWithoutCurrentValueKeepsSentValue(t *testing.T) {
	s, api, _, _ := setupSession()
	selectLicense(t, s, api, "a")
	require.NoError(t, s.Corrections().EditField("a-f-dob", "1990-01-02"))

	api.On("UpdateField", mock.Anything, "a-f-dob", "1990-01-02").Return(&domain.FieldUpdate{
		ID: "a-f-dob", IsCorrected: boolPtr(true),
	}, nil)
	api.On("GetDocument", mock.Anything, "a").Return(nil, errors.New("unreachable")).Once()

	entry, err := s.Corrections().SaveField(context.Background(), "a-f-dob")

	require.NoError(t, err)
	assert.Equal(t, "1990-01-02", entry.Committed)
	assert.Equal(t, "1990-01-01", entry.OriginalValue)
	assert.True(t, entry.IsCorrected)
	assert.False(t, entry.Dirty())
	dob, _ := entryByName(s.View(), "dob")
	assert.Equal(t, "1990-01-02", dob.CurrentValue())
}

func TestCorrection_SaveField_ReplyWithEmptyCurrentValueIsConfirmed(t *testing.T) {
	s, api, _, _ := setupSession()
	selectLicense(t, s, api, "a")
	require.NoError(t, s.Corrections().EditField("a-f-dob", ""))

	api.On("UpdateField", mock.Anything, "a-f-dob", "").Return(&domain.FieldUpdate{
		ID: "a-f-dob", CurrentValue: strPtr(""),
	}, nil)
	api.On("GetDocument", mock.Anything, "a").Return(nil, errors.New("unreachable")).Once()

	entry, err := s.Corrections().SaveField(context.Background(), "a-f-dob")

	require.NoError(t, err)
	assert.Empty(t, entry.Committed)
	assert.True(t, entry.IsCorrected)
}
