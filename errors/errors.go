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
	"fmt"
)

var (
	// ErrTypeMismatch is returned when an opaque pointer value is read under a type name
	// different from the one it was created with.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDestinationNotFound is returned when a message is addressed to a pid that is not
	// registered, either because it was never allocated or because its port was closed.
	ErrDestinationNotFound = errors.New("destination not found")

	// ErrForeignCall is returned when a foreign callable fails or panics.
	ErrForeignCall = errors.New("foreign call failed")

	// ErrHandler is returned when a default handler fails during dispatch.
	ErrHandler = errors.New("default handler failed")

	// ErrResourceNotFound is returned when a process accesses a resource it has not registered
	// or has already deleted.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrSchedulerNotStarted is returned when the message scheduler is used before Start.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrInvalidInterval is returned when a scheduling interval is not positive.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrProcessNotStarted is returned when an operation requires a running process.
	ErrProcessNotStarted = errors.New("process has not started")

	// ErrProcessAlreadyStarted is returned when a process that has already started is asked to start again.
	ErrProcessAlreadyStarted = errors.New("process has already started")

	// ErrNilProgram is returned when a process is created without a program.
	ErrNilProgram = errors.New("program is nil")

	// ErrFunctionNotFound is returned when a native function is not registered under the requested key.
	ErrFunctionNotFound = errors.New("native function not found")

	// ErrHostShutdown is returned when the host is used after Shutdown.
	ErrHostShutdown = errors.New("host has shut down")

	// ErrInvalidJSON is returned when a JSON document cannot be parsed into a value.
	ErrInvalidJSON = errors.New("invalid json document")

	// ErrPanic represents a recovered panic.
	ErrPanic = errors.New("panic")
)

// NewErrDestinationNotFound formats an ErrDestinationNotFound with the given pid.
func NewErrDestinationNotFound(pid int64) error {
	return fmt.Errorf("(pid=%d) %w", pid, ErrDestinationNotFound)
}

// NewErrResourceNotFound formats an ErrResourceNotFound with the expected type name.
func NewErrResourceNotFound(typeName string) error {
	return fmt.Errorf("(resource type=%s) %w", typeName, ErrResourceNotFound)
}

// NewErrFunctionNotFound formats an ErrFunctionNotFound with the given key.
func NewErrFunctionNotFound(namespace, name string) error {
	return fmt.Errorf("(function=%s.%s) %w", namespace, name, ErrFunctionNotFound)
}

// TypeMismatchError reports a pointer accessed under the wrong type name
type TypeMismatchError struct {
	Expected string
	Actual   string
}

// enforce compilation error
var _ error = (*TypeMismatchError)(nil)

// NewTypeMismatchError creates an instance of TypeMismatchError
func NewTypeMismatchError(expected, actual string) *TypeMismatchError {
	return &TypeMismatchError{Expected: expected, Actual: actual}
}

// Error implements the standard error interface
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", ErrTypeMismatch.Error(), e.Expected, e.Actual)
}

// Unwrap returns ErrTypeMismatch
func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// ForeignCallError wraps the failure of a foreign callable
type ForeignCallError struct {
	err error
}

var _ error = (*ForeignCallError)(nil)

// NewForeignCallError returns an instance of ForeignCallError
func NewForeignCallError(err error) *ForeignCallError {
	return &ForeignCallError{err: err}
}

// Error implements the standard error interface
func (e *ForeignCallError) Error() string {
	return fmt.Sprintf("%s: %v", ErrForeignCall.Error(), e.err)
}

// Unwrap returns both ErrForeignCall and the underlying error
func (e *ForeignCallError) Unwrap() []error {
	return []error{ErrForeignCall, e.err}
}

// HandlerError wraps the failure of a default handler registered under Token
type HandlerError struct {
	Token string
	err   error
}

var _ error = (*HandlerError)(nil)

// NewHandlerError returns an instance of HandlerError
func NewHandlerError(token string, err error) *HandlerError {
	return &HandlerError{Token: token, err: err}
}

// Error implements the standard error interface
func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s (token=%s): %v", ErrHandler.Error(), e.Token, e.err)
}

// Unwrap returns both ErrHandler and the underlying error
func (e *HandlerError) Unwrap() []error {
	return []error{ErrHandler, e.err}
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

// Unwrap returns both ErrPanic and the underlying error
func (e *PanicError) Unwrap() []error {
	return []error{ErrPanic, e.err}
}
