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

package port

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/mailport/internal/xsync"
)

// Registry maps pids to live ports.
// Pids are allocated from a monotonically increasing counter starting at 0 and are never reused.
type Registry interface {
	// NextPID allocates a new pid
	NextPID() int64
	// Register makes the port reachable under its pid
	Register(port *Port)
	// Unregister removes the port when it is still the one registered under its pid
	Unregister(port *Port)
	// Lookup returns the port registered under pid
	Lookup(pid int64) (*Port, bool)
	// Len returns the number of registered ports
	Len() int
}

type registry struct {
	counter *atomic.Int64
	ports   *xsync.Map[int64, *Port]
}

// enforce compilation error
var _ Registry = (*registry)(nil)

var (
	defaultRegistry Registry
	defaultOnce     sync.Once
)

// NewRegistry creates an empty Registry whose first allocated pid is 0
func NewRegistry() Registry {
	return &registry{
		counter: atomic.NewInt64(0),
		ports:   xsync.NewMap[int64, *Port](),
	}
}

// DefaultRegistry returns the process-wide Registry used by ports created without WithRegistry
func DefaultRegistry() Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *registry) NextPID() int64 {
	return r.counter.Inc() - 1
}

func (r *registry) Register(port *Port) {
	if port == nil {
		return
	}
	r.ports.Set(port.PID(), port)
}

func (r *registry) Unregister(port *Port) {
	if port == nil {
		return
	}
	r.ports.CompareAndDelete(port.PID(), func(registered *Port) bool {
		return registered == port
	})
}

func (r *registry) Lookup(pid int64) (*Port, bool) {
	return r.ports.Get(pid)
}

func (r *registry) Len() int {
	return r.ports.Len()
}
