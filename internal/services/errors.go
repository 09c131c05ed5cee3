package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/reelx/internal/shared"
)

const (
	MessageResponseDefault = "An error occurred"
	MessageNetwork         = "Network error. Please check your connection."
	MessageUnknown         = "An unexpected error occurred."
)

// ErrorKind identifies which failure path produced an [APIError].
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindResponse
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// APIError is the only error shape returned by [Client].
//
// StatusCode is the HTTP status for [KindResponse] and 0 otherwise.
// Code carries the optional machine-readable "error" field of the response body.
type APIError struct {
	Kind       ErrorKind `json:"-"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Code       string    `json:"error,omitempty"`

	cause error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Unwrap returns the underlying failure, which is kept for logging only.
func (e *APIError) Unwrap() error { return e.cause }

// Is lets callers match an APIError against the shared sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrAPIRequest:
		return true
	case shared.ErrUnauthorized:
		return e.Kind == KindResponse && e.StatusCode == http.StatusUnauthorized
	case shared.ErrNetwork:
		return e.Kind == KindTransport
	case shared.ErrMovieNotFound:
		return e.Kind == KindResponse && e.StatusCode == http.StatusNotFound
	}
	return false
}

// AsAPIError extracts an [*APIError] from err, normalizing anything else as unknown.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return unknownError(err)
}

// errorBody is the error payload; fields are raw so non-string values can be ignored.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// responseError builds a [KindResponse] error from a non-2xx status and its body.
// message and error are taken from the body only when they are JSON strings.
func responseError(status int, body []byte) *APIError {
	e := &APIError{Kind: KindResponse, Message: MessageResponseDefault, StatusCode: status}

	var payload errorBody
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil {
		return e
	}
	if s, ok := jsonString(payload.Message); ok && s != "" {
		e.Message = s
	}
	if s, ok := jsonString(payload.Error); ok {
		e.Code = s
	}
	return e
}

func transportError(cause error) *APIError {
	return &APIError{Kind: KindTransport, Message: MessageNetwork, cause: cause}
}

func unknownError(cause error) *APIError {
	return &APIError{Kind: KindUnknown, Message: MessageUnknown, cause: cause}
}

func jsonString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Normalize maps the outcome of one request to an [*APIError], or nil when it succeeded.
//
// dispatched reports whether the request was handed to the transport. Failures before dispatch
// are unknown. A transport failure without a response is a network error. A non-2xx response
// is a response error regardless of err. Any remaining err (such as an undecodable 2xx body)
// is unknown.
func Normalize(dispatched bool, resp *http.Response, body []byte, err error) *APIError {
	switch {
	case !dispatched:
		if err == nil {
			err = errors.New("request not dispatched")
		}
		return unknownError(err)
	case resp == nil:
		if err == nil {
			err = errors.New("no response")
		}
		return transportError(err)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return responseError(resp.StatusCode, body)
	case err != nil:
		return unknownError(err)
	}
	return nil
}
