package tlcd

import (
	"errors"
	"fmt"
)

// ErrNaming is matched (errors.Is) by every *NamingError.
var ErrNaming = errors.New("name cannot be written in the TLCD format")

// NamingError reports the first object whose name collides with the
// formula syntax. Nothing is written when it is returned.
type NamingError struct {
	ID   int
	Name string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("the network cannot be written in the TLCD format because object %d has name %q (rename the objects and try again)", e.ID, e.Name)
}

func (e *NamingError) Unwrap() error { return ErrNaming }

// OpenError reports that the output destination could not be created.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open the output file %q: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// WriteError reports an I/O failure after the destination was opened.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write: %v", e.Err)
	}
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// GateError reports a gate whose truth table, realization or formula could
// not be produced.
type GateError struct {
	Gate string
	ID   int
	Err  error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate %s (object %d): %v", e.Gate, e.ID, e.Err)
}

func (e *GateError) Unwrap() error { return e.Err }
