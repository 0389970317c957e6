// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the application's error taxonomy. Every failure
// that crosses a handler boundary is classified with a Kind, which maps to
// an HTTP status code and a stable machine-readable code string. The
// underlying cause is preserved for logging but never leaks to clients in
// production.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind int

const (
	// Internal is the catch-all for unexpected failures.
	Internal Kind = iota
	// Validation means client input failed a schema or sanity check.
	Validation
	// Upstream means an external generation/image API call failed.
	Upstream
	// MalformedContent means the upstream returned an unparseable payload.
	MalformedContent
	// Filesystem means a directory or file operation failed.
	Filesystem
	// ImageProcessing means an image upload/conversion step failed.
	ImageProcessing
)

// Code returns the stable machine-readable identifier for the kind.
func (k Kind) Code() string {
	switch k {
	case Validation:
		return "validation_error"
	case Upstream:
		return "upstream_error"
	case MalformedContent:
		return "malformed_content"
	case Filesystem:
		return "filesystem_error"
	case ImageProcessing:
		return "image_processing_error"
	default:
		return "internal_error"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Upstream, MalformedContent, Filesystem, ImageProcessing, Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a Kind, a client-safe message, and the wrapped cause.
type Error struct {
	Kind    Kind
	Message string // safe to show to clients
	Err     error  // underlying cause, logged server-side only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that preserves err as the cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain. Unclassified errors
// report Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// MessageOf returns the client-safe message from an error chain, or a
// generic fallback for unclassified errors.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An internal error occurred."
}
