package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrMissingVar      = errors.New("missing variable")
	ErrExecution       = errors.New("execution error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnsupported     = errors.New("unsupported")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindInvalidConfig   ErrorKind = "invalid_config"
	KindMissingVar      ErrorKind = "missing_variable"
	KindExecution       ErrorKind = "execution"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindUnsupported     ErrorKind = "unsupported"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// InvalidArgument builds an OpError of kind KindInvalidArgument that still
// matches ErrInvalidArgument with errors.Is.
func InvalidArgument(op string, format string, args ...any) error {
	return &OpError{
		Op:   op,
		Kind: KindInvalidArgument,
		Err:  fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument),
	}
}

// Unsupported builds an OpError of kind KindUnsupported that still matches
// ErrUnsupported with errors.Is.
func Unsupported(op string, format string, args ...any) error {
	return &OpError{
		Op:   op,
		Kind: KindUnsupported,
		Err:  fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUnsupported),
	}
}
