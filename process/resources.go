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

package process

import (
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/value"
)

// Resources tracks the native handles a process allocated.
// Pointer values handed to a program are checked against it so that a deleted
// or foreign handle is rejected instead of being dereferenced.
type Resources struct {
	handles mapset.Set[any]
}

func newResources() *Resources {
	return &Resources{handles: mapset.NewSet[any]()}
}

// Register records handle. Handles must be comparable; others are ignored.
func (r *Resources) Register(handle any) {
	if !isComparable(handle) {
		return
	}
	r.handles.Add(handle)
}

// Has reports whether handle is registered
func (r *Resources) Has(handle any) bool {
	if !isComparable(handle) {
		return false
	}
	return r.handles.Contains(handle)
}

// Delete forgets handle
func (r *Resources) Delete(handle any) {
	if !isComparable(handle) {
		return
	}
	r.handles.Remove(handle)
}

// Len returns the number of registered handles
func (r *Resources) Len() int {
	return r.handles.Cardinality()
}

// Check returns the handle of the pointer value v when it carries typeName and is registered
func (r *Resources) Check(v *value.Value, typeName string) (any, error) {
	handle, err := v.Typed(typeName)
	if err != nil || !r.Has(handle) {
		return nil, gerrors.NewErrResourceNotFound(typeName)
	}
	return handle, nil
}

// Clear forgets every handle
func (r *Resources) Clear() {
	r.handles.Clear()
}

func isComparable(handle any) bool {
	if handle == nil {
		return false
	}
	return reflect.TypeOf(handle).Comparable()
}
