package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
	"docverify/internal/handler"
	"docverify/internal/router"
	"docverify/mocks"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func setupRouter() (*gin.Engine, *mocks.MockDocumentService) {
	gin.SetMode(gin.TestMode)
	svc := new(mocks.MockDocumentService)
	r := router.Setup("/api", []string{"http://localhost:3000"}, router.Handlers{
		Document: handler.NewDocumentHandler(svc),
		Extract:  handler.NewExtractHandler(svc, 1024*1024),
		Field:    handler.NewFieldHandler(svc),
		Health:   handler.NewHealthHandler(okPinger{}, "1.0.0", "gpt-4o"),
	})
	return r, svc
}

func TestSetup_Routes(t *testing.T) {
	r, svc := setupRouter()
	svc.On("List", mock.Anything, 0).Return([]domain.DocumentSummary{}, nil)
	svc.On("Get", mock.Anything, "doc-1").Return(&domain.Document{ID: "doc-1"}, nil)
	svc.On("Delete", mock.Anything, "doc-1").Return(nil)
	svc.On("ListCorrections", mock.Anything, "doc-1").Return([]domain.FieldCorrection{}, nil)
	svc.On("ListExtractions", mock.Anything, "doc-1").Return([]domain.ExtractionRecord{}, nil)
	svc.On("UpdateField", mock.Anything, "f-1", "v").Return(&domain.Field{ID: "f-1"}, nil)
	svc.On("DocumentTypes").Return(map[domain.DocumentType][]string{})

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/healthz", ""},
		{http.MethodGet, "/readyz", ""},
		{http.MethodGet, "/api/health", ""},
		{http.MethodGet, "/api/documents", ""},
		{http.MethodGet, "/api/documents/doc-1", ""},
		{http.MethodDelete, "/api/documents/doc-1", ""},
		{http.MethodGet, "/api/documents/doc-1/corrections", ""},
		{http.MethodGet, "/api/documents/doc-1/history", ""},
		{http.MethodPut, "/api/fields/f-1", `{"value":"v"}`},
		{http.MethodGet, "/api/document-types", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestSetup_UnknownRoute(t *testing.T) {
	r, _ := setupRouter()

	req, _ := http.NewRequest(http.MethodGet, "/api/nope", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetup_UploadRoutesRequireFile(t *testing.T) {
	r, svc := setupRouter()

	for _, path := range []string{"/api/classify", "/api/extract"} {
		t.Run(path, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	svc.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}
