// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(Validation, "field is read-only")
	assert.Equal(t, Validation, KindOf(err))
	assert.True(t, IsKind(err, Validation))
	assert.False(t, IsKind(err, Schema))

	// Kinds survive wrapping with %w.
	wrapped := fmt.Errorf("while saving: %w", err)
	assert.Equal(t, Validation, KindOf(wrapped))

	assert.Equal(t, Kind(""), KindOf(fmt.Errorf("untyped")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestErrorFormatting(t *testing.T) {
	assert.Equal(t, "not_found: no such record", New(NotFound, "no such record").Error())

	cause := fmt.Errorf("connection reset")
	err := Wrap(RemoteService, "calling object.execute", cause)
	assert.Equal(t, "remote_service: calling object.execute: connection reset", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestNewf(t *testing.T) {
	err := Newf(NotFound, "there is no %q record with id %d", "res.partner", 42)
	assert.Contains(t, err.Error(), "res.partner")
	assert.Contains(t, err.Error(), "42")
}
