// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("With destination not found", func(t *testing.T) {
		err := NewErrDestinationNotFound(9999)
		require.EqualError(t, err, "(pid=9999) destination not found")
		assert.ErrorIs(t, err, ErrDestinationNotFound)
	})

	t.Run("With resource not found", func(t *testing.T) {
		err := NewErrResourceNotFound("Window")
		require.EqualError(t, err, "(resource type=Window) resource not found")
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("With function not found", func(t *testing.T) {
		err := NewErrFunctionNotFound("mp", "send")
		require.EqualError(t, err, "(function=mp.send) native function not found")
		assert.ErrorIs(t, err, ErrFunctionNotFound)
	})

	t.Run("With type mismatch", func(t *testing.T) {
		err := NewTypeMismatchError("Window", "Socket")
		require.EqualError(t, err, "type mismatch: expected Window, got Socket")
		assert.ErrorIs(t, err, ErrTypeMismatch)

		var target *TypeMismatchError
		require.ErrorAs(t, error(err), &target)
		assert.Equal(t, "Window", target.Expected)
		assert.Equal(t, "Socket", target.Actual)
	})

	t.Run("With foreign call", func(t *testing.T) {
		cause := errors.New("script failed")
		err := NewForeignCallError(cause)
		require.EqualError(t, err, "foreign call failed: script failed")
		assert.ErrorIs(t, err, ErrForeignCall)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("With handler", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewHandlerError("cmd1", cause)
		require.EqualError(t, err, "default handler failed (token=cmd1): boom")
		assert.ErrorIs(t, err, ErrHandler)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("With panic", func(t *testing.T) {
		cause := errors.New("something went wrong")
		err := NewPanicError(cause)
		require.EqualError(t, err, "panic: something went wrong")
		assert.ErrorIs(t, err, ErrPanic)
		assert.ErrorIs(t, err, cause)
	})
}

func TestFromRecovered(t *testing.T) {
	t.Run("With a string panic", func(t *testing.T) {
		var err *PanicError
		func() {
			defer func() {
				err = FromRecovered(recover(), 1)
			}()
			panic("kaboom")
		}()
		require.NotNil(t, err)
		assert.ErrorIs(t, err, ErrPanic)
		assert.Contains(t, err.Error(), "kaboom")
	})

	t.Run("With an error panic", func(t *testing.T) {
		cause := errors.New("bad state")
		var err *PanicError
		func() {
			defer func() {
				err = FromRecovered(recover(), 1)
			}()
			panic(cause)
		}()
		require.NotNil(t, err)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("With an existing PanicError", func(t *testing.T) {
		existing := NewPanicError(errors.New("inner"))
		assert.Same(t, existing, FromRecovered(existing, 0))
	})
}
