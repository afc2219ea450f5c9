package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"docverify/internal/domain"
)

// RemoteError describes a failed call to the document service. It unwraps
// to the matching domain sentinel and, for transport failures, the cause.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Kind       error
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

func (e *RemoteError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// kindForStatus maps an HTTP status to the domain error taxonomy.
func kindForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.ErrServiceUnavailable
	default:
		return domain.ErrServerRejected
	}
}

// errorBody covers the error shapes the service may return.
type errorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// errorMessage extracts a human-readable message from a non-2xx body.
func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != nil && eb.Error.Message != "" {
			return eb.Error.Message
		}
		if len(eb.Detail) > 0 {
			var detail string
			if json.Unmarshal(eb.Detail, &detail) == nil && detail != "" {
				return detail
			}
			return string(eb.Detail)
		}
	}
	return truncateRunes(strings.TrimSpace(string(body)), maxErrorMessage)
}

const maxErrorMessage = 500

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// IsNotFound reports whether err means the resource no longer exists.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
