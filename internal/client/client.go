package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"docverify/internal/domain"
	"docverify/internal/port"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "/api"
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 64 * 1024
)

// Client talks to the remote document service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ port.DocumentAPI = (*Client)(nil)

type listDocumentsResponse struct {
	Documents []domain.DocumentSummary `json:"documents"`
}

// ListDocuments fetches document summaries, most recent first.
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	path := "/documents"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var resp listDocumentsResponse
	if err := c.do(ctx, "client.ListDocuments", http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Documents == nil {
		resp.Documents = []domain.DocumentSummary{}
	}
	return resp.Documents, nil
}

// GetDocument fetches the full record of one document.
func (c *Client) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := c.do(ctx, "client.GetDocument", http.MethodGet, "/documents/"+url.PathEscape(id), nil, "", &doc); err != nil {
		return nil, err
	}
	for name, f := range doc.Fields {
		if f.FieldName == "" {
			f.FieldName = name
		}
		if f.DocumentID == "" {
			f.DocumentID = doc.ID
		}
		doc.Fields[name] = f
	}
	return &doc, nil
}

// Extract uploads a file for classification and field extraction.
func (c *Client) Extract(ctx context.Context, file port.UploadFile) (*domain.ExtractionResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("client.Extract: creating form part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("client.Extract: writing form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client.Extract: closing form: %w", err)
	}

	var result domain.ExtractionResult
	if err := c.do(ctx, "client.Extract", http.MethodPost, "/extract", &body, mw.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	if result.DocumentContent == nil {
		result.DocumentContent = map[string]string{}
	}
	return &result, nil
}

type updateFieldRequest struct {
	Value string `json:"value"`
}

// UpdateField persists a new current value for a field. Keys missing from
// the reply are left nil in the returned update.
func (c *Client) UpdateField(ctx context.Context, fieldID, value string) (*domain.FieldUpdate, error) {
	payload, err := json.Marshal(updateFieldRequest{Value: value})
	if err != nil {
		return nil, fmt.Errorf("client.UpdateField: encoding body: %w", err)
	}
	var field domain.FieldUpdate
	if err := c.do(ctx, "client.UpdateField", http.MethodPut, "/fields/"+url.PathEscape(fieldID), bytes.NewReader(payload), "application/json", &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// DeleteDocument removes a document and everything attached to it.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, "client.DeleteDocument", http.MethodDelete, "/documents/"+url.PathEscape(id), nil, "", nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msgf("%s: %s %s failed", op, method, path)
		return &RemoteError{Op: op, Kind: domain.ErrServiceUnavailable, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msgf("%s: %s %s", op, method, path)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
			Kind:       kindForStatus(resp.StatusCode),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			Kind:       domain.ErrServerRejected,
			Err:        err,
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
