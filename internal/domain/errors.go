package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocument        = errors.New("no document loaded")
	ErrSuperseded        = errors.New("open superseded by a newer open")
	ErrNotLocal          = errors.New("document has no local path; save to a file path instead")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ParseError describes a document that could not be read.
type ParseError struct {
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error while parsing %s: %v", e.Location, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError describes a document that could not be saved.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("error saving %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
