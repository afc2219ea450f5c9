package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService is a minimal document service recording the calls it receives.
type fakeService struct {
	mu      sync.Mutex
	calls   []string
	updates map[string]string
}

func (f *fakeService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	doc := map[string]any{
		"id":            "doc-1",
		"document_type": "passport",
		"file_name":     "passport.png",
		"upload_date":   "2024-05-01T12:00:00",
		"status":        "extracted",
		"fields": map[string]any{
			"first_name": map[string]any{"id": "f-first", "original_value": "Jon", "current_value": "Jon", "is_corrected": false},
		},
	}

	mux.HandleFunc("GET /api/documents", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_ = json.NewEncoder(w).Encode(map[string]any{"documents": []any{doc}})
	})
	mux.HandleFunc("GET /api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.PathValue("id") != "doc-1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"DOCUMENT_NOT_FOUND","message":"Document not found"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("DELETE /api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(`{"message":"Document deleted successfully"}`))
	})
	mux.HandleFunc("PUT /api/fields/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var body struct {
			Value string `json:"value"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.updates[r.PathValue("id")] = body.Value
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": r.PathValue("id"), "original_value": "Jon", "current_value": body.Value, "is_corrected": true,
		})
	})
	return mux
}

func (f *fakeService) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeService) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func runCLI(t *testing.T, stdin string, args ...string) (*fakeService, string, error) {
	t.Helper()
	svc := &fakeService{updates: map[string]string{}}
	srv := httptest.NewServer(svc.handler(t))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--base-url", srv.URL+"/api", "--log-level", "error"))

	err := root.Execute()
	return svc, out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"list", "show", "extract", "set", "delete", "export", "review"} {
		assert.Contains(t, names, want)
	}
}

func TestListCmd(t *testing.T) {
	svc, out, err := runCLI(t, "", "list")
	require.NoError(t, err)
	assert.True(t, svc.called("GET /api/documents"))
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "passport.png")
}

func TestShowCmd_NotFound(t *testing.T) {
	_, out, err := runCLI(t, "", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, out, "Document no longer exists")
}

func TestSetCmd(t *testing.T) {
	svc, _, err := runCLI(t, "", "set", "doc-1", "first_name", "John")
	require.NoError(t, err)
	assert.Equal(t, "John", svc.updates["f-first"])
}

func TestSetCmd_UnknownField(t *testing.T) {
	svc, _, err := runCLI(t, "", "set", "doc-1", "nationality", "X")
	require.Error(t, err)
	assert.Empty(t, svc.updates)
}

func TestDeleteCmd_Force(t *testing.T) {
	svc, _, err := runCLI(t, "", "delete", "doc-1", "--force")
	require.NoError(t, err)
	assert.True(t, svc.called("DELETE /api/documents/doc-1"))
}

func TestDeleteCmd_Declined(t *testing.T) {
	svc, out, err := runCLI(t, "n\n", "delete", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete passport.png?")
	assert.Contains(t, out, "Operation canceled.")
	assert.False(t, svc.called("DELETE /api/documents/doc-1"))
}

func TestExportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.xlsx")
	_, out, err := runCLI(t, "", "export", "doc-1", "--format", "xlsx", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 fields")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportCmd_BadFormat(t *testing.T) {
	_, _, err := runCLI(t, "", "export", "doc-1", "--format", "ods")
	require.Error(t, err)
}

func TestReviewCmd(t *testing.T) {
	_, out, err := runCLI(t, "open #1\nshow\nquit\n", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "review shell")
	assert.Contains(t, out, "first_name")
}
