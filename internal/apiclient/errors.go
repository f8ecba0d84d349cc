package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
)

var (
	// ErrUnauthorized is returned after any 401. The stored session has
	// already been cleared when the caller sees it.
	ErrUnauthorized = errors.New("apiclient: unauthorized")

	// ErrNoSession means there is no stored session to authenticate with.
	ErrNoSession = errors.New("apiclient: no session")

	ErrInvalidResponse = errors.New("apiclient: invalid response")
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`

	// Summary is set on confirmation_required answers.
	Summary *lineitem.Summary `json:"summary,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("apiclient: http %d", e.Status)
	}
	return fmt.Sprintf("apiclient: http %d: %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Code returns the API error code carried by err, or "".
func Code(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
