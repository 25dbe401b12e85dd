package directory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tartampluch/hermandad/internal/config"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New(config.ErrValidation)

	// ErrUnavailable matches transport and server failures alike.
	ErrUnavailable = errors.New(config.ErrUnavailable)

	// ErrAgeNumber reports a non-numeric age.
	ErrAgeNumber = errors.New(config.ErrAgeNumber)
)

// ValidationKind distinguishes missing values from malformed ones.
type ValidationKind int

const (
	ValidationMissing ValidationKind = iota
	ValidationFormat
)

// ValidationError is returned before any request is sent.
type ValidationError struct {
	Kind   ValidationKind
	Fields []FieldID
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.String())
	}
	reason := "missing"
	if e.Kind == ValidationFormat {
		reason = "malformed"
	}
	return fmt.Sprintf("%s: %s %s", config.ErrValidation, reason, strings.Join(names, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransportError means no HTTP response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s (%s): %v", config.ErrTransport, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrUnavailable }

// ServerError means the directory answered with a non-2xx status.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s (%s): %d", config.ErrServerStatus, e.Op, e.StatusCode)
}

func (e *ServerError) Is(target error) bool { return target == ErrUnavailable }

// TooLargeError means the directory answered but the body exceeded Limit bytes.
// The read stops at the limit.
type TooLargeError struct {
	Op    string
	Limit int
	Err   error
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s (%s): limit %d bytes", config.ErrResponseSize, e.Op, e.Limit)
}

func (e *TooLargeError) Unwrap() error { return e.Err }

func (e *TooLargeError) Is(target error) bool { return target == ErrUnavailable }
