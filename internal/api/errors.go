package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/caredash/caredash/internal/errors"
)

// Error is a failed backend response: the HTTP status plus the decoded
// {"error": {...}} body when there was one.
type Error struct {
	Status  int
	Code    string
	Message string
	Details json.RawMessage
}

func (e *Error) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Message, e.Status)
	case e.Message != "":
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	case e.Code != "":
		return fmt.Sprintf("%s (HTTP %d)", e.Code, e.Status)
	default:
		return fmt.Sprintf("HTTP %d %s", e.Status, http.StatusText(e.Status))
	}
}

// Cause is the query string the login view receives after a forced logout.
type Cause string

const (
	CauseAuthRequired   Cause = "auth=required"
	CauseSessionExpired Cause = "session=expired"
)

// Backend error codes that end the session.
const (
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeAuthRequired   = "AUTH_REQUIRED"
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeSessionExpired = "SESSION_EXPIRED"
	CodeTokenExpired   = "TOKEN_EXPIRED"
)

// AuthCause classifies err. ok is false when err does not require a new login.
func AuthCause(err error) (cause Cause, ok bool) {
	var apiErr *Error
	if !apperrors.As(err, &apiErr) {
		return "", false
	}
	switch apiErr.Code {
	case CodeSessionExpired, CodeTokenExpired:
		return CauseSessionExpired, true
	case CodeUnauthorized, CodeAuthRequired, CodeInvalidToken:
		return CauseAuthRequired, true
	}
	if apiErr.Status == http.StatusUnauthorized {
		return CauseAuthRequired, true
	}
	return "", false
}

// IsAuthError reports whether err means the session is no longer valid.
func IsAuthError(err error) bool {
	_, ok := AuthCause(err)
	return ok
}

// LoginPath is the login location for a forced logout.
func LoginPath(cause Cause) string {
	if cause == "" {
		return "/login"
	}
	return "/login?" + string(cause)
}
