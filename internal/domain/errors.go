package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable is returned when the catalog resource cannot be fetched or parsed
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrProductNotFound is returned when a product key is not in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrSelectionIndex is returned when a selection index is out of range
	ErrSelectionIndex = errors.New("selection index out of range")

	// ErrStorageKeyNotFound is returned when a storage key has never been written
	ErrStorageKeyNotFound = errors.New("storage key not found")

	// ErrStorageUnavailable is returned when the persistence backend cannot be used
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrChatTransport is returned when the chat-completion endpoint cannot be reached
	// or answers with something that is not a usable completion
	ErrChatTransport = errors.New("chat endpoint request failed")

	// ErrNoSelection is returned when a routine is requested with an empty selection
	ErrNoSelection = errors.New("no products selected")

	// ErrEmptyMessage is returned when a chat message has no text
	ErrEmptyMessage = errors.New("message is empty")

	// ErrRequestInFlight is returned when a chat surface already has an outstanding request
	ErrRequestInFlight = errors.New("a request is already in progress")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// APIError is an application-level error reported by the chat-completion endpoint
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat endpoint error (status %d): %s", e.StatusCode, e.Message)
}
