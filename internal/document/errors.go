package document

import (
	"errors"
	"fmt"
)

var ErrParse = errors.New("parse error")

// ParseError reports where a document is malformed. It matches ErrParse
// with errors.Is and unwraps to the underlying cause.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse document: %s", e.Reason)
	}
	return fmt.Sprintf("parse document: %s: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func parseErr(path, reason string, err error) *ParseError {
	return &ParseError{Path: path, Reason: reason, Err: err}
}

// prefixPath rebases a ParseError found inside a nested document.
func prefixPath(prefix string, err error) error {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return err
	}
	out := *pe
	if out.Path == "" {
		out.Path = prefix
	} else {
		out.Path = prefix + "." + out.Path
	}
	return &out
}
