package ncm

import (
	"errors"
	"fmt"
)

// CatalogErrorKind classifies failures of catalog operations.
type CatalogErrorKind int

const (
	// CatalogErrorUnknown is the zero value for unclassified failures.
	CatalogErrorUnknown CatalogErrorKind = iota
	// CatalogErrorNotFound indicates the requested entity does not exist.
	CatalogErrorNotFound
	// CatalogErrorRateLimited indicates the API refused the request due to throttling.
	CatalogErrorRateLimited
	// CatalogErrorUnplayable indicates the track cannot be streamed by the current session.
	CatalogErrorUnplayable
	// CatalogErrorTransport indicates a network or HTTP level failure.
	CatalogErrorTransport
	// CatalogErrorMalformed indicates the API response could not be interpreted.
	CatalogErrorMalformed
)

// String returns a human-readable name for the error kind.
func (k CatalogErrorKind) String() string {
	switch k {
	case CatalogErrorNotFound:
		return "not found"
	case CatalogErrorRateLimited:
		return "rate limited"
	case CatalogErrorUnplayable:
		return "unplayable"
	case CatalogErrorTransport:
		return "transport"
	case CatalogErrorMalformed:
		return "malformed"
	case CatalogErrorUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// CatalogError describes a failed catalog operation.
type CatalogError struct {
	// Kind classifies the failure.
	Kind CatalogErrorKind
	// Op names the failed operation.
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}

	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// newCatalogError wraps an error into a CatalogError for the given operation.
func newCatalogError(op string, kind CatalogErrorKind, err error) *CatalogError {
	return &CatalogError{Kind: kind, Op: op, Err: err}
}

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrUnexpectedAPICode indicates the JSON envelope reported a non-success code.
	ErrUnexpectedAPICode = errors.New("unexpected API code")
	// ErrEmptyResponse indicates the API returned an envelope without the expected payload.
	ErrEmptyResponse = errors.New("empty API response")
	// ErrTrackNotFound indicates the requested track was not found.
	ErrTrackNotFound = errors.New("track not found")
	// ErrPlaylistNotFound indicates the requested playlist was not found.
	ErrPlaylistNotFound = errors.New("playlist not found")
)
