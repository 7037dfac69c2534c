package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrNoResponse         = errors.New("no response from server")
	ErrTimeout            = errors.New("request timed out")
	ErrUnexpectedResponse = errors.New("unexpected response")
	ErrMissingToken       = fmt.Errorf("%w: access_token missing", ErrUnexpectedResponse)
)

// User facing text for transport failures.
const (
	NoResponseMessage = "No response from server. Check your network connection."
	TimeoutMessage    = "Request timeout. Please check your connection."
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string // body "message" field
	Detail  string // body "detail" field, or the raw body when it is not JSON
}

func (e *APIError) Error() string {
	if text := e.Text(); text != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, text)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Text returns the message, falling back to the detail.
func (e *APIError) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Detail
}

// DetailFirst returns the detail, falling back to the message.
func (e *APIError) DetailFirst() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// newAPIError decodes {"message": ..., "detail": ...} bodies. detail may be a
// string or a list of {"msg": ...} validation entries.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Message = payload.Message
	apiErr.Detail = decodeDetail(payload.Detail)
	return apiErr
}

func decodeDetail(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(raw)
}

// transportError classifies a failed round trip.
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNoResponse, err)
}

// Message returns the text to show the user for err.
//
// Server rejections use the body's message or detail when present; every other
// failure without a dedicated text uses fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		if text := apiErr.Text(); text != "" {
			return text
		}
	case errors.Is(err, ErrTimeout):
		return TimeoutMessage
	case errors.Is(err, ErrNoResponse):
		return NoResponseMessage
	}
	return fallback
}
