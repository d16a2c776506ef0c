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
	"github.com/tochemey/mailport/eventstream"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/port"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a Process.
	Apply(proc *Process)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Process)

// Apply applies the option
func (f OptionFunc) Apply(p *Process) {
	f(p)
}

// WithLogger sets the process logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(p *Process) {
		if logger != nil {
			p.logger = logger
		}
	})
}

// WithAutoDelete disposes the process once its program returned:
// the port is unregistered and the resource table cleared.
func WithAutoDelete() Option {
	return OptionFunc(func(p *Process) {
		p.autoDelete = true
	})
}

// WithMessageLogging enables message tracing on the process port
func WithMessageLogging() Option {
	return OptionFunc(func(p *Process) {
		p.messageLogging = true
	})
}

// WithRegistry sets the registry the process port is registered with
func WithRegistry(registry port.Registry) Option {
	return OptionFunc(func(p *Process) {
		if registry != nil {
			p.registry = registry
		}
	})
}

// WithEventsStream sets the stream lifecycle events and deadletters are published to
func WithEventsStream(stream eventstream.Stream) Option {
	return OptionFunc(func(p *Process) {
		p.events = stream
	})
}

// WithLockedOSThread runs the program on a goroutine locked to its OS thread
func WithLockedOSThread() Option {
	return OptionFunc(func(p *Process) {
		p.lockOSThread = true
	})
}

// WithMetrics sets the runtime counters
func WithMetrics(stats *port.Stats) Option {
	return OptionFunc(func(p *Process) {
		p.stats = stats
	})
}

// WithName sets the process name used in logs and lifecycle events
func WithName(name string) Option {
	return OptionFunc(func(p *Process) {
		p.name = name
	})
}
