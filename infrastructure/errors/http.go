// Package errors turns non-2xx HTTP responses into typed errors.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBody caps how much of an error body is retained.
const maxBody = 64 << 10

// HTTPError is a failed HTTP exchange.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// ParseHTTPError returns nil for statuses below 400. Otherwise it reads the
// body and extracts a message from the shapes our peers produce:
// {"detail": "..."} from the link manager API, {"code","message"} from the
// WordPress REST API, and {"error": "..."} from generic services.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("read error body: %v", err),
		}
	}

	httpErr := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	httpErr.Message = messageFrom(body)
	if httpErr.Message == "" {
		httpErr.Message = strings.TrimSpace(string(body))
	}
	return httpErr
}

func messageFrom(body []byte) string {
	var shape struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if json.Unmarshal(body, &shape) != nil {
		return ""
	}

	if len(shape.Detail) > 0 {
		var s string
		if json.Unmarshal(shape.Detail, &s) == nil {
			return s
		}
		// Validation errors arrive as a list of {"msg": ...}.
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(shape.Detail, &items) == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if shape.Message != "" {
		return shape.Message
	}
	return shape.Error
}

// StatusCode extracts the status of a wrapped HTTPError.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// Wrapf annotates err, returning nil for a nil err.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
