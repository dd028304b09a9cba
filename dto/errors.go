package dto

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL indicates the descriptor's base URL + path does not
	// form an absolute URL, or an upload source path does not exist.
	ErrInvalidURL = errors.New("invalid request url")

	// ErrNoNetwork is returned by the pre-flight connectivity gate.
	ErrNoNetwork = errors.New("no network connectivity")

	ErrNilDescriptor = errors.New("nil Descriptor provided")
)

// ConversionError reports a response body that could not be converted
// into the requested type.
type ConversionError struct {
	Tag string
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert response to %s: %v", e.Tag, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// IndexedConversionError identifies which element of a list response
// failed to convert.
type IndexedConversionError struct {
	Index int
	Err   error
}

func (e *IndexedConversionError) Error() string {
	return fmt.Sprintf("convert list element %d: %v", e.Index, e.Err)
}

func (e *IndexedConversionError) Unwrap() error { return e.Err }

// NetworkError wraps a socket-level failure during send (DNS, connect,
// TLS handshake, broken transfer).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network failure: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError carries a non-success status after classification.
type HTTPError struct {
	StatusCode int
	Category   StatusCategory
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d (%s)", e.StatusCode, e.Category)
}

// InvalidResponseError is the catch-all for unexpected pipeline
// failures that are neither transport nor conversion errors.
type InvalidResponseError struct {
	Err error
}

func (e *InvalidResponseError) Error() string { return fmt.Sprintf("invalid response: %v", e.Err) }

func (e *InvalidResponseError) Unwrap() error { return e.Err }
