package transport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	t.Run("WithCause", func(t *testing.T) {
		err := &Error{
			Kind: KindOpen,
			Msg:  "unable to open serial port COM3",
			Err:  errors.New("access denied"),
		}
		assert.Equal(t, "unable to open serial port COM3: access denied", err.Error())
	})

	t.Run("WithoutCause", func(t *testing.T) {
		err := &Error{Kind: KindValidation, Msg: "printer name is required"}
		assert.Equal(t, "printer name is required", err.Error())
	})
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Kind: KindConnect, Msg: "tcp connect failed", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, (&Error{Kind: KindFlush, Msg: "flush failed"}).Unwrap())
}

func TestIsKind(t *testing.T) {
	err := &Error{Kind: KindWrite, Msg: "serial write failed (COM3)"}

	assert.True(t, IsKind(err, KindWrite))
	assert.False(t, IsKind(err, KindOpen))
	assert.False(t, IsKind(errors.New("plain"), KindWrite))
	assert.False(t, IsKind(nil, KindWrite))

	// Kind survives wrapping.
	wrapped := fmt.Errorf("job aborted: %w", err)
	assert.True(t, IsKind(wrapped, KindWrite))
}
