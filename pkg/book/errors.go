package book

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound means the named archive is not in the resources directory.
	ErrTemplateNotFound = errors.New("template archive not found")
	// ErrPackageNotFound means no .playgroundbook entry exists at depth 0 or 1.
	ErrPackageNotFound = errors.New("no .playgroundbook found")
	// ErrNoActivePackage means a convenience call was made before any
	// package root was extracted or located.
	ErrNoActivePackage = errors.New("no active playground book; extract or locate one first")
	// ErrExtractionTimeout is wrapped by the ExtractionFailed error raised
	// when an extraction exceeds its deadline.
	ErrExtractionTimeout = errors.New("extraction timed out")
)

// Kind classifies I/O and subprocess failures.
type Kind int

const (
	CopyFailed Kind = iota + 1
	ExtractionFailed
	WriteFailed
)

func (k Kind) String() string {
	switch k {
	case CopyFailed:
		return "copy failed"
	case ExtractionFailed:
		return "extraction failed"
	case WriteFailed:
		return "write failed"
	default:
		return "unknown failure"
	}
}

// Error wraps an underlying cause with its Kind and the path involved.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}

func copyFailed(path string, err error) error {
	return &Error{Kind: CopyFailed, Path: path, Err: err}
}

func extractionFailed(path string, err error) error {
	return &Error{Kind: ExtractionFailed, Path: path, Err: err}
}

func writeFailed(path string, err error) error {
	return &Error{Kind: WriteFailed, Path: path, Err: err}
}
