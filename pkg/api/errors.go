package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies failures the way the UI reports them.
type Kind int

const (
	// KindNetwork covers transport failures and timeouts.
	KindNetwork Kind = iota
	// KindValidation is a 400/422 from the backend.
	KindValidation
	// KindAuth means the session is gone and the user must log in again.
	KindAuth
	// KindBusiness is any other refusal by the backend.
	KindBusiness
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindBusiness:
		return "business"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized matches auth failures after the refresh attempt.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSuperseded is returned by Searcher when a newer search replaced this one.
	ErrSuperseded = errors.New("search superseded by a newer query")
	// ErrNoUser is returned when no user id is configured or logged in.
	ErrNoUser = errors.New("no user: log in or set a user id")
)

// Error is returned by every Client call that fails.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: [%s] HTTP %d: %s", e.Op, e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: [%s] %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text shown in toasts.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNetwork:
		return "could not reach the server, try again"
	case KindAuth:
		return "session expired, please log in again"
	}
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// Is lets errors.Is match the sentinel errors by status.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.Kind == KindAuth
	}
	return false
}

// KindOf returns the Kind of err, and false if err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func networkError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

func httpError(op string, status int, body []byte) *Error {
	kind := KindBusiness
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidation
	case http.StatusUnauthorized:
		kind = KindAuth
	}
	msg := serverMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: kind, Op: op, StatusCode: status, Message: msg}
}

// serverMessage pulls a human message out of the common error envelopes.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		s := strings.TrimSpace(string(body))
		if len(s) > 200 {
			s = s[:200]
		}
		return s
	}
	for _, key := range []string{"detail", "message", "error"} {
		switch v := envelope[key].(type) {
		case string:
			return v
		case []any:
			// FastAPI style validation details.
			parts := make([]string, 0, len(v))
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					if s, ok := m["msg"].(string); ok {
						parts = append(parts, s)
					}
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		}
	}
	return ""
}
