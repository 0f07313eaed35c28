package resource

import (
	"github.com/cockroachdb/errors"
)

// Sentinel references classifying row-processing failures. Errors raised
// inside the engine are marked with one of these so callers can route on
// the failure class with errors.Is without depending on message text.
var (
	// ErrConversion marks a cell value that cannot be coerced to a
	// field's native type.
	ErrConversion = errors.New("value conversion failed")

	// ErrResolution marks identification fields that are missing from a
	// row or resolve ambiguously.
	ErrResolution = errors.New("instance resolution failed")

	// ErrPersistence marks a save or delete rejected by the store.
	ErrPersistence = errors.New("persistence failed")

	// ErrHook marks a failure raised by a before/after extension point.
	ErrHook = errors.New("hook failed")
)

func conversionErrorf(format string, args ...any) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrConversion)
}

func wrapConversion(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrConversion)
}

func wrapResolution(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrResolution)
}

func wrapPersistence(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrPersistence)
}

func wrapHook(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrHook)
}
