package ncm

import (
	"errors"
	"fmt"
)

// EmbedError describes a failed metadata embedding.
// The audio payload on disk is left untouched when it is returned.
type EmbedError struct {
	// Path is the audio file the embedding targeted.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EmbedError) Error() string {
	return fmt.Sprintf("failed to embed tags into %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *EmbedError) Unwrap() error {
	return e.Err
}

// Static error definitions for better error handling.
var (
	// ErrEmptyTrackPath indicates that the track file path is empty.
	ErrEmptyTrackPath = errors.New("track path cannot be empty")
	// ErrUnsupportedContainer indicates the container format has no tag writer.
	ErrUnsupportedContainer = errors.New("unsupported container format")
	// ErrUnknownPlaceholder indicates the naming template references an unknown placeholder.
	ErrUnknownPlaceholder = errors.New("unknown template placeholder")
	// ErrMalformedTemplate indicates the naming template could not be parsed.
	ErrMalformedTemplate = errors.New("malformed naming template")
	// ErrIncompleteDownload indicates fewer bytes were written than the stream advertised.
	ErrIncompleteDownload = errors.New("incomplete download")
	// ErrNoStreamURL indicates audio resolution produced no usable stream URL.
	ErrNoStreamURL = errors.New("no stream URL")
)
