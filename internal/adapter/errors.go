package adapter

import (
	"errors"
	"fmt"

	"github.com/vk/sectiongrid/internal/param"
)

// ErrNoAdapter is matched by every *MissingAdapterError.
var ErrNoAdapter = errors.New("no adapter registered")

// MissingAdapterError reports a parameter kind without a codec.
type MissingAdapterError struct {
	Kind param.Kind
}

func (e *MissingAdapterError) Error() string {
	return fmt.Sprintf("%s for parameter kind '%s'", ErrNoAdapter, e.Kind)
}

func (e *MissingAdapterError) Is(target error) bool {
	return target == ErrNoAdapter
}

// ConversionError reports a host value that could not be read into, or
// written from, a parameter.
type ConversionError struct {
	Param string
	Kind  param.Kind
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("parameter %q (%s): %v", e.Param, e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
