package motion

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound is returned when an input path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidFormat is returned when a loaded value has the wrong shape for an operation.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrMissingRequiredFields is returned when a record lacks one of RequiredFields.
	ErrMissingRequiredFields = errors.New("missing required keys")
	// ErrCorruptFile is returned when a container cannot be decoded.
	ErrCorruptFile = errors.New("corrupt file")
)

// MissingFieldsError names the required fields a record is missing.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required keys: [%s]", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingRequiredFields
}
