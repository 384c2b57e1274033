// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can distinguish a local validation failure
// from a remote service failure without parsing message strings.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Schema indicates schema introspection failed or returned an
	// unrecognized field type. Fatal to model construction.
	Schema Kind = "schema"
	// NotFound indicates a refresh of an existing id found no record on
	// the server.
	NotFound Kind = "not_found"
	// Validation indicates a write against a read-only or unrecognized
	// field. Raised locally, before any network call.
	Validation Kind = "validation"
	// Protocol indicates a calling-convention violation, such as named
	// parameters under compatibility mode.
	Protocol Kind = "protocol"
	// RemoteService indicates an opaque failure reported by the remote
	// service. Propagated unchanged, never retried here.
	RemoteService Kind = "remote_service"
	// Lookup indicates a pool lookup for a schema that is no longer
	// registered.
	Lookup Kind = "lookup"
	// Auth indicates a failed authentication against the server.
	Auth Kind = "auth"
	// Config indicates invalid or missing client configuration.
	Config Kind = "config"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Newf is New with fmt.Sprintf formatting of the message.
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" when err carries no kind.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
