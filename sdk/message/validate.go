package message

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a message field is outside its bit width.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidLength is returned when a buffer does not have the size its
	// message type requires.
	ErrInvalidLength = errors.New("invalid message length")

	// ErrUnknownType is returned when the status byte carries an unrecognized
	// message type.
	ErrUnknownType = errors.New("unrecognized message type")
)

// RangeError describes a rejected constructor argument.
type RangeError struct {
	Field string
	Value int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("midi: %s %d out of range [0,%d]", e.Field, e.Value, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// checkRange is the only place field ranges are enforced.
func checkRange(field string, value, max int) error {
	if value < 0 || value > max {
		return &RangeError{Field: field, Value: value, Max: max}
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// DecodeError reports a buffer that could not be decoded. Err is either
// ErrInvalidLength or ErrUnknownType.
type DecodeError struct {
	Length   int  // Length of the offending buffer.
	Expected int  // Expected length, when the type was recognized.
	Status   byte // Status byte, when the buffer was not empty.
	Err      error
}

func (e *DecodeError) Error() string {
	if errors.Is(e.Err, ErrUnknownType) {
		return fmt.Sprintf("midi: decode: %v 0x%X (status byte 0x%02X, length %d)", e.Err, e.Status>>4, e.Status, e.Length)
	}
	if e.Expected > 0 {
		return fmt.Sprintf("midi: decode: %v %d, want %d for %s", e.Err, e.Length, e.Expected, Type(e.Status>>4))
	}
	return fmt.Sprintf("midi: decode: %v %d", e.Err, e.Length)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Tag returns the message-type nibble of the offending status byte.
func (e *DecodeError) Tag() Type { return Type(e.Status >> 4) }
