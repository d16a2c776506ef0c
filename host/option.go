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

package host

import (
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/mailport/eventstream"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/port"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a Host.
	Apply(host *Host)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Host)

// Apply applies the option
func (f OptionFunc) Apply(h *Host) {
	f(h)
}

// WithLogger sets the host logger. Spawned processes inherit it.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	})
}

// WithRegistry sets the registry of the host port and of every spawned process
func WithRegistry(registry port.Registry) Option {
	return OptionFunc(func(h *Host) {
		if registry != nil {
			h.registry = registry
		}
	})
}

// WithEventsStream sets the stream lifecycle events and deadletters are published to
func WithEventsStream(stream eventstream.Stream) Option {
	return OptionFunc(func(h *Host) {
		h.events = stream
	})
}

// WithMetrics sets the runtime counters shared by the host and its processes
func WithMetrics(stats *port.Stats) Option {
	return OptionFunc(func(h *Host) {
		if stats != nil {
			h.stats = stats
		}
	})
}

// WithMeterProvider exposes the runtime counters as OpenTelemetry instruments
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(h *Host) {
		h.meterProvider = provider
	})
}

// WithShutdownTimeout bounds how long Shutdown waits for processes to exit
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(h *Host) {
		if timeout > 0 {
			h.shutdownTimeout = timeout
		}
	})
}
