package dupscan

import (
	"fmt"
)

// DupError associates an I/O failure with the path that caused it.
// It is used both for fatal errors (failure enumerating a given
// directory) and for recoverable per-file warnings accumulated in
// DupResults.Warnings.
type DupError struct {
	Path string
	Err  error
}

// NewDupError creates a DupError for the given path and cause.
func NewDupError(path string, err error) *DupError {
	return &DupError{Path: path, Err: err}
}

func (e *DupError) Error() string {
	return fmt.Sprintf("%s (%v)", e.Path, e.Err)
}

func (e *DupError) Unwrap() error {
	return e.Err
}

// InputError reports an invariant violated before any work starts,
// such as a mode constructed with no files and no directories. It is
// always fatal to the invocation; nothing is computed.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// newInputError creates an InputError with a formatted reason.
func newInputError(format string, args ...interface{}) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}
