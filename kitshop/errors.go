package kitshop

import (
	"fmt"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
)

// UnavailableError reports a transport failure (connection refused, timeout, cancelled
// context). The call never reached a vendor decision and may be retried by the caller.
type UnavailableError struct {
	Operation string
	Err       error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("kitshop %s: %v: %v", e.Operation, errors.ErrGatewayUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{errors.ErrGatewayUnavailable, e.Err}
}

// HTTPStatusError reports a non-200 HTTP status from the vendor
type HTTPStatusError struct {
	Operation  string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("kitshop %s: %v: status %d", e.Operation, errors.ErrVendorHTTP, e.StatusCode)
}

func (e *HTTPStatusError) Unwrap() error {
	return errors.ErrVendorHTTP
}

// RejectedError reports an HTTP 200 response whose ResultCode is missing or anything other
// than the number 0, e.g. a bad signature or a bad filter. ResultCode holds the raw JSON
// value and is empty when the vendor sent none.
type RejectedError struct {
	Operation  string
	ResultCode string
}

func (e *RejectedError) Error() string {
	if e.ResultCode == "" {
		return fmt.Sprintf("kitshop %s: %v: missing ResultCode", e.Operation, errors.ErrVendorRejected)
	}
	return fmt.Sprintf("kitshop %s: %v: ResultCode %s", e.Operation, errors.ErrVendorRejected, e.ResultCode)
}

func (e *RejectedError) Unwrap() error {
	return errors.ErrVendorRejected
}

// PayloadError reports a successful response whose body does not match the record schema
type PayloadError struct {
	Operation string
	Err       error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("kitshop %s: %v", e.Operation, e.Err)
}

func (e *PayloadError) Unwrap() []error {
	return []error{errors.ErrVendorPayloadInvalid, e.Err}
}

func invalidf(format string, args ...any) error {
	return errors.Wrapf(errors.ErrVendorPayloadInvalid, format, args...)
}
