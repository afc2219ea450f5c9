package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/domain"
	"docverify/internal/workspace"
)

// --- LineReader ---

func TestLineReader_ReadLine(t *testing.T) {
	r := NewLineReader(strings.NewReader("  first \nlast"))
	ctx := context.Background()

	line, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = r.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader_Canceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := NewLineReader(pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCanceled)
}

func TestLineReader_CanceledReadKeepsLine(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := NewLineReader(pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.ReadLine(ctx)
	require.ErrorIs(t, err, ErrInputCanceled)

	go func() { _, _ = io.WriteString(pw, "kept\n") }()

	line, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kept", line)
}

// --- PromptConfirmer ---

func TestPromptConfirmer_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			c := NewPromptConfirmer(NewLineReader(strings.NewReader(tt.input)), &out)

			ok, err := c.Confirm(context.Background(), "Delete passport.png? This cannot be undone.")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Delete passport.png?")
		})
	}
}

func TestAlwaysConfirm(t *testing.T) {
	ok, err := AlwaysConfirm{}.Confirm(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, ok)
}

// --- Printer ---

func TestPrinter_Notify(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, true)

	p.Notify(domain.Notification{Level: domain.NotifyError, Message: "Failed to delete document", Err: errors.New("HTTP 500")})
	p.Notify(domain.Notification{Level: domain.NotifyInfo, Message: "Document deleted"})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], ErrorIcon)
	assert.Contains(t, lines[0], "Failed to delete document: HTTP 500")
	assert.Contains(t, lines[1], "Document deleted")
}

func TestPrinter_NotifyQuiet(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, false)

	p.Notify(domain.Notification{Level: domain.NotifyWarning, Message: "Select a file first", Err: domain.ErrNothingStaged})

	assert.Contains(t, out.String(), "Select a file first")
	assert.NotContains(t, out.String(), domain.ErrNothingStaged.Error())
}

// --- Rendering ---

func TestRenderDocumentList(t *testing.T) {
	assert.Contains(t, RenderDocumentList(nil), "No documents yet")

	out := RenderDocumentList([]domain.DocumentSummary{
		{ID: "doc-2", FileName: "b.pdf", DocumentType: domain.DocumentTypeEADCard, Status: domain.DocumentStatusVerified},
		{ID: "doc-1", FileName: "a.png", DocumentType: domain.DocumentTypePassport, Status: domain.DocumentStatusError},
	})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "doc-2")
	assert.Contains(t, lines[1], "verified")
	assert.Contains(t, lines[2], "a.png")
}

func TestRenderDocument(t *testing.T) {
	assert.Contains(t, RenderDocument(workspace.View{}), "No document selected")

	draft := "Smyth"
	v := workspace.View{
		Current: &domain.Document{ID: "doc-1", FileName: "passport.png", DocumentType: domain.DocumentTypePassport, Status: domain.DocumentStatusVerified, PageCount: 1},
		Preview: "data:image/png;base64," + strings.Repeat("A", 4096),
		Fields: []workspace.LedgerEntry{
			{ID: "f-1", FieldName: "first_name", OriginalValue: "Jon", Committed: "John", IsCorrected: true},
			{ID: "f-2", FieldName: "last_name", OriginalValue: "Smith", Committed: "Smith", Draft: &draft},
		},
	}
	out := RenderDocument(v)

	assert.Contains(t, out, "passport.png")
	assert.Contains(t, out, "image/png, 3 KB")
	assert.Contains(t, out, "corrected")
	assert.Contains(t, out, "Smyth")
	assert.Contains(t, out, "unsaved")
}

func TestRenderDocument_NoFields(t *testing.T) {
	out := RenderDocument(workspace.View{Current: &domain.Document{ID: "doc-1", FileName: "x.pdf"}})
	assert.Contains(t, out, "No fields were extracted.")
}

// --- Spinner ---

func TestWithSpinner_ReturnsResult(t *testing.T) {
	var out bytes.Buffer
	want := errors.New("boom")

	err := WithSpinner(&out, "Working...", func() error {
		time.Sleep(200 * time.Millisecond)
		return want
	})
	assert.ErrorIs(t, err, want)

	assert.NoError(t, WithSpinner(&out, "Working...", func() error { return nil }))
}
