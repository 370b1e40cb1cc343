package source

import (
	"fmt"
	"net/http"

	"bestlyrics/internal/lyrics"
)

// FetchError is a transport failure or a non-200 response.
type FetchError struct {
	Source lyrics.SourceID
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s returned status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("%s fetch failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NotFound reports whether the upstream answered 404.
func (e *FetchError) NotFound() bool { return e.Status == http.StatusNotFound }

// ParseError is a response that does not match the provider's schema.
type ParseError struct {
	Source lyrics.SourceID
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
