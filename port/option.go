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
	"github.com/tochemey/mailport/eventstream"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/value"
)

// Interceptor inspects a message before it reaches the mailbox.
// Returning true claims the message and it is not queued.
type Interceptor func(msg *value.Value) bool

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a Port.
	Apply(port *Port)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Port)

// Apply applies the option
func (f OptionFunc) Apply(p *Port) {
	f(p)
}

// WithInterceptor sets the port interceptor
func WithInterceptor(interceptor Interceptor) Option {
	return OptionFunc(func(p *Port) {
		p.interceptor = interceptor
	})
}

// WithRegistry sets the registry the port allocates its pid from
func WithRegistry(registry Registry) Option {
	return OptionFunc(func(p *Port) {
		if registry != nil {
			p.registry = registry
		}
	})
}

// WithLogger sets the port logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(p *Port) {
		if logger != nil {
			p.logger = logger
		}
	})
}

// WithEventsStream sets the stream deadletters are published to
func WithEventsStream(stream eventstream.Stream) Option {
	return OptionFunc(func(p *Port) {
		p.events = stream
	})
}

// WithMetrics sets the counters updated on emit, handle and deadletter
func WithMetrics(stats *Stats) Option {
	return OptionFunc(func(p *Port) {
		p.stats = stats
	})
}

// WithMessageLogging enables message tracing from the start
func WithMessageLogging() Option {
	return OptionFunc(func(p *Port) {
		p.logging.Store(true)
	})
}
