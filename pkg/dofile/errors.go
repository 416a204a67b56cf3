// SPDX-License-Identifier: MPL-2.0

package dofile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidPath is the sentinel error wrapped by InvalidPathError.
	ErrInvalidPath = errors.New("invalid path")
)

type (
	// InvalidTargetError is returned when a target path has no final
	// component to build, e.g. "out/" or "".
	InvalidTargetError struct {
		Target string
	}

	// InvalidPathError is returned when the target directory cannot be
	// made absolute against the supplied working directory.
	InvalidPathError struct {
		Path   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %q: empty file name", e.Target)
}

// Unwrap returns ErrInvalidTarget for errors.Is() compatibility.
func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }
