package rocket

import (
	"errors"
	"fmt"
)

// Error classes. Match them with errors.Is.
var (
	// ErrInputRange means a field is missing or outside its declared bounds.
	ErrInputRange = errors.New("input out of range")

	// ErrConstruction means a configuration or motor could not be built.
	ErrConstruction = errors.New("construction failed")

	// ErrGeometry is the ErrConstruction case for inconsistent motor geometry.
	ErrGeometry = fmt.Errorf("%w: invalid motor geometry", ErrConstruction)

	// ErrResourceNotFound means the thrust curve reference could not be resolved.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrDataUnavailable means the forecast source could not deliver data.
	ErrDataUnavailable = errors.New("forecast data unavailable")
)

// Error is a classified failure with a message fit for the user. Err keeps
// the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds a classified error with a formatted user message.
func NewError(kind error, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindName returns a short machine readable name for the class of err.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInputRange):
		return "input_range"
	case errors.Is(err, ErrGeometry):
		return "geometry"
	case errors.Is(err, ErrConstruction):
		return "construction"
	case errors.Is(err, ErrResourceNotFound):
		return "resource_not_found"
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	default:
		return "internal"
	}
}

// UserMessage returns the message to show for err without the cause chain.
func UserMessage(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Message
	}
	return "unexpected failure"
}
