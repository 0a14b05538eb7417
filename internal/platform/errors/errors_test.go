package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("redis: connection refused")

	tests := []struct {
		name       string
		err        *Error
		wantType   ErrorType
		wantStatus int
		wantCause  error
	}{
		{"protocol", ProtocolError("Invalid JSON format"), TypeProtocol, http.StatusBadRequest, nil},
		{"validation", ValidationError("Invalid payload"), TypeValidation, http.StatusBadRequest, nil},
		{"not found", NotFoundError("Room not found"), TypeNotFound, http.StatusNotFound, nil},
		{"conflict", ConflictError("Username already taken"), TypeConflict, http.StatusConflict, nil},
		{"internal", InternalError("encode failed", cause), TypeInternal, http.StatusInternalServerError, cause},
		{"external", ExternalError("redis unavailable", cause), TypeExternal, http.StatusServiceUnavailable, cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus())
			assert.Equal(t, tt.wantCause, tt.err.Cause)
			assert.NotNil(t, tt.err.Context)
			assert.Contains(t, tt.err.Error(), string(tt.wantType))
			assert.Contains(t, tt.err.Error(), tt.err.Message)
		})
	}
}

func TestErrorStringWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)
	assert.Equal(t, "internal: something went wrong", err.Error())
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestErrorStringWithCause(t *testing.T) {
	err := ExternalError("publish failed", fmt.Errorf("timeout"))
	assert.Equal(t, "external: publish failed: timeout", err.Error())
}

func TestWithContextChaining(t *testing.T) {
	err := NotFoundError("Room not found").
		WithContext("room_code", "ABC123").
		WithContext("connection_id", "c-1")

	assert.Len(t, err.Context, 2)
	assert.Equal(t, "ABC123", err.Context["room_code"])
	assert.Equal(t, "c-1", err.Context["connection_id"])
}

func TestWithContextNilMap(t *testing.T) {
	err := &Error{Type: TypeValidation, Message: "test"}

	err = err.WithContext("key", "value")

	require.NotNil(t, err.Context)
	assert.Equal(t, "value", err.Context["key"])
}

func TestWithContextOverwrite(t *testing.T) {
	err := ValidationError("test").WithContext("field", "original").WithContext("field", "overwritten")
	assert.Equal(t, "overwritten", err.Context["field"])
}

func TestToResponse(t *testing.T) {
	resp := ConflictError("Username already taken").WithContext("room_code", "ABC123").ToResponse()

	assert.Equal(t, "Username already taken", resp.Error)
	assert.Equal(t, TypeConflict, resp.Type)
	assert.Equal(t, "ABC123", resp.Context["room_code"])
}

func TestUnwrap(t *testing.T) {
	root := fmt.Errorf("root cause")
	err := InternalError("wrapped", root)

	assert.Equal(t, root, errors.Unwrap(err))
	assert.True(t, errors.Is(err, root))
	assert.Nil(t, errors.Unwrap(ValidationError("test")))
}

func TestErrorsAs(t *testing.T) {
	var err error = fmt.Errorf("outer: %w", ProtocolError("Unknown message type"))

	var target *Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, TypeProtocol, target.Type)
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("structured passes through", func(t *testing.T) {
		original := ValidationError("original")
		assert.Same(t, original, AsStructuredError(original))
	})

	t.Run("wrapped structured is found", func(t *testing.T) {
		wrapped := fmt.Errorf("wrapped: %w", NotFoundError("Room not found"))
		result := AsStructuredError(wrapped)
		assert.Equal(t, TypeNotFound, result.Type)
		assert.Equal(t, "Room not found", result.Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		original := fmt.Errorf("standard error")
		result := AsStructuredError(original)
		assert.Equal(t, TypeInternal, result.Type)
		assert.Equal(t, "internal server error", result.Message)
		assert.Equal(t, original, result.Cause)
	})
}

func TestHTTPStatusUnknownType(t *testing.T) {
	err := &Error{Type: ErrorType("unknown")}
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}
