package wikidata

import (
	"errors"
	"fmt"
)

// Common errors returned by the Wikidata client.
var (
	// ErrNotFound indicates the entity does not exist.
	ErrNotFound = errors.New("entity not found in Wikidata")

	// ErrAuthError indicates a login or token failure.
	ErrAuthError = errors.New("Wikidata authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Wikidata rate limit exceeded")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Wikidata")

	// ErrLoginCancelled indicates the user declined to supply credentials.
	ErrLoginCancelled = errors.New("login cancelled")
)

// APIError represents an error payload from the MediaWiki API.
type APIError struct {
	Code   string
	Info   string
	Entity string // For context in per-entity errors
}

func (e *APIError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("Wikidata API error (code %s): %s (entity: %s)", e.Code, e.Info, e.Entity)
	}
	return fmt.Sprintf("Wikidata API error (code %s): %s", e.Code, e.Info)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "badtoken", "notoken", "assertuserfailed", "permissiondenied":
			return true
		}
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == "ratelimited" || apiErr.Code == "maxlag"
	}
	return false
}
