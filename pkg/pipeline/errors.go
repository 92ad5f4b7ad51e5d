package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds of a failed run. Use errors.Is to tell them apart.
var (
	ErrInputNotFound   = errors.New("input file not found")
	ErrInputUnreadable = errors.New("input file unreadable")
	ErrNoFrameChunks   = errors.New("no frame chunks found (is this a valid AVI file?)")
	ErrOutputWrite     = errors.New("failed to write output file")
	ErrInvalidConfig   = errors.New("invalid run configuration")
)

// RunError is returned by Run when a stage fails. It matches both its
// kind and the underlying cause with errors.Is.
type RunError struct {
	Stage Stage
	Kind  error
	Path  string
	Err   error
}

func (e *RunError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RunError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(stage Stage, kind error, path string, err error) *RunError {
	return &RunError{Stage: stage, Kind: kind, Path: path, Err: err}
}
