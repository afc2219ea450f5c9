package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/extractor"
)

func TestParseFields_FencedBlock(t *testing.T) {
	content := "Here you go:\n```json\n{\"full_name\": \"JOHN SMITH\", \"address\": {\"city\": \"Austin\"}}\n```\nAnything else?"

	got, err := extractor.ParseFields(content)

	require.NoError(t, err)
	assert.Equal(t, "JOHN SMITH", got["full_name"])
	assert.JSONEq(t, `{"city":"Austin"}`, got["address"])
}

func TestParseFields_BareObjectWithSurroundingText(t *testing.T) {
	got, err := extractor.ParseFields(`The fields are {"license_number": 12345, "date_of_birth": null, "category": "null", "veteran": true} as requested`)

	require.NoError(t, err)
	assert.Equal(t, "12345", got["license_number"])
	assert.Equal(t, "", got["date_of_birth"])
	assert.Equal(t, "", got["category"])
	assert.Equal(t, "true", got["veteran"])
}

func TestParseFields_NoJSON(t *testing.T) {
	_, err := extractor.ParseFields("I cannot read this document.")

	assert.ErrorIs(t, err, extractor.ErrNoJSON)
}

func TestParseFields_BrokenJSON(t *testing.T) {
	_, err := extractor.ParseFields(`{"full_name": "unterminated`)

	assert.ErrorIs(t, err, extractor.ErrNoJSON)
}
