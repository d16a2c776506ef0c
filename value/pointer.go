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

package value

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"unsafe"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/mailport/errors"
)

// Destructor releases the foreign resource behind a pointer handle
type Destructor func(handle any)

// PointerOption configures a Pointer value
type PointerOption func(*pointer)

// WithDestructor sets the function run once when the last reference is released
func WithDestructor(fn Destructor) PointerOption {
	return func(p *pointer) {
		p.state.fn = fn
	}
}

// AsWeak marks the pointer as non-owning. A weak pointer never runs its destructor.
func AsWeak() PointerOption {
	return func(p *pointer) {
		p.weak = true
	}
}

type pointer struct {
	handle   any
	typeName string
	weak     bool
	refs     *atomic.Int64
	state    *destructorState
}

// destructorState must not reference the pointer it belongs to,
// otherwise the GC cleanup would never fire.
type destructorState struct {
	once   sync.Once
	fn     Destructor
	handle any
}

func (s *destructorState) run() {
	s.once.Do(func() {
		if s.fn != nil {
			s.fn(s.handle)
		}
	})
}

// NewPointer wraps an opaque foreign handle tagged with typeName.
// The value starts with a reference count of one.
func NewPointer(handle any, typeName string, opts ...PointerOption) *Value {
	p := &pointer{
		handle:   handle,
		typeName: typeName,
		refs:     atomic.NewInt64(1),
		state:    &destructorState{handle: handle},
	}
	for _, opt := range opts {
		opt(p)
	}
	if !p.weak && p.state.fn != nil {
		runtime.AddCleanup(p, func(state *destructorState) { state.run() }, p.state)
	}
	return &Value{kind: Pointer, ptr: p}
}

// Handle returns the raw foreign handle of a pointer, or nil for other kinds
func (v *Value) Handle() any {
	if v.Kind() != Pointer {
		return nil
	}
	return v.ptr.handle
}

// TypeName returns the type tag of a pointer, otherwise the kind name
func (v *Value) TypeName() string {
	if v.Kind() != Pointer {
		return v.Kind().String()
	}
	return v.ptr.typeName
}

// Typed returns the raw handle when the pointer was created with the expected type name.
// Any other value yields a *errors.TypeMismatchError.
func (v *Value) Typed(expected string) (any, error) {
	if v.Kind() != Pointer {
		return nil, gerrors.NewTypeMismatchError(expected, v.Kind().String())
	}
	if v.ptr.typeName != expected {
		return nil, gerrors.NewTypeMismatchError(expected, v.ptr.typeName)
	}
	return v.ptr.handle, nil
}

// TypedAs is Typed followed by a Go type assertion on the handle
func TypedAs[T any](v *Value, expected string) (T, error) {
	var zero T
	handle, err := v.Typed(expected)
	if err != nil {
		return zero, err
	}
	typed, ok := handle.(T)
	if !ok {
		return zero, gerrors.NewTypeMismatchError(fmt.Sprintf("%s(%T)", expected, zero), fmt.Sprintf("%s(%T)", expected, handle))
	}
	return typed, nil
}

// IsWeak reports whether the pointer is non-owning
func (v *Value) IsWeak() bool {
	return v.Kind() == Pointer && v.ptr.weak
}

// Retain adds a reference to a pointer and returns the value
func (v *Value) Retain() *Value {
	if v.Kind() == Pointer {
		v.ptr.refs.Inc()
	}
	return v
}

// Release drops a reference to a pointer. The destructor runs exactly once
// when the count reaches zero, unless the pointer is weak.
func (v *Value) Release() {
	if v.Kind() != Pointer {
		return
	}
	remaining := v.ptr.refs.Dec()
	if remaining < 0 {
		v.ptr.refs.Store(0)
		return
	}
	if remaining == 0 && !v.ptr.weak {
		v.ptr.state.run()
	}
}

// RefCount returns the reference count of a pointer, 0 for other kinds
func (v *Value) RefCount() int64 {
	if v.Kind() != Pointer {
		return 0
	}
	return v.ptr.refs.Load()
}

func (p *pointer) String() string {
	return fmt.Sprintf("#<pointer:%s:%016x>", p.typeName, p.address())
}

func (p *pointer) address() uintptr {
	switch h := p.handle.(type) {
	case nil:
		return 0
	case uintptr:
		return h
	case unsafe.Pointer:
		return uintptr(h)
	}
	rv := reflect.ValueOf(p.handle)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice:
		return rv.Pointer()
	default:
		return 0
	}
}

func (p *pointer) sameHandle(other *pointer) bool {
	if p.typeName != other.typeName {
		return false
	}
	if p.handle == nil || other.handle == nil {
		return p.handle == nil && other.handle == nil
	}
	left, right := reflect.TypeOf(p.handle), reflect.TypeOf(other.handle)
	if left != right {
		return false
	}
	if left.Comparable() {
		return p.handle == other.handle
	}
	return p.address() != 0 && p.address() == other.address()
}
