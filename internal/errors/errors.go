package errors

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Common error types for the gateway
var (
	// Startup errors
	ErrConfiguration = stderrors.New("configuration error")

	// Authentication errors
	ErrInvalidCredentials = stderrors.New("invalid credentials")
	ErrUserNotFound       = stderrors.New("user not found")
	ErrAlreadyExists      = stderrors.New("already exists")

	// Token errors
	ErrInvalidToken = stderrors.New("invalid token")

	// Vendor errors
	ErrGatewayUnavailable   = stderrors.New("kitshop gateway unavailable")
	ErrVendorHTTP           = stderrors.New("kitshop http error")
	ErrVendorRejected       = stderrors.New("kitshop rejected request")
	ErrVendorPayloadInvalid = stderrors.New("kitshop payload invalid")

	// General errors
	ErrInvalidRequest = stderrors.New("invalid request")
	ErrNotFound       = stderrors.New("not found")
)

// New returns an error with the message and a stack trace
func New(message string) error {
	return errors.New(message)
}

// Errorf formats an error with a stack trace
func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Wrap annotates err with message. Returns nil if err is nil.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, or nil if all are nil
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
