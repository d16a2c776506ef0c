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

package metric

import "go.uber.org/atomic"

// Counters holds the raw runtime counts observed by RuntimeMetric.
// All methods are safe for concurrent use.
type Counters struct {
	processes   *atomic.Int64
	emitted     *atomic.Int64
	handled     *atomic.Int64
	deadletters *atomic.Int64
}

// NewCounters creates a zeroed Counters
func NewCounters() *Counters {
	return &Counters{
		processes:   atomic.NewInt64(0),
		emitted:     atomic.NewInt64(0),
		handled:     atomic.NewInt64(0),
		deadletters: atomic.NewInt64(0),
	}
}

// ProcessStarted records a running process
func (c *Counters) ProcessStarted() {
	if c != nil {
		c.processes.Inc()
	}
}

// ProcessExited records a process whose program returned
func (c *Counters) ProcessExited() {
	if c != nil {
		c.processes.Dec()
	}
}

// MessageEmitted records an emitted message
func (c *Counters) MessageEmitted() {
	if c != nil {
		c.emitted.Inc()
	}
}

// MessageHandled records a message accepted by a port
func (c *Counters) MessageHandled() {
	if c != nil {
		c.handled.Inc()
	}
}

// Deadletter records a message addressed to an unknown pid
func (c *Counters) Deadletter() {
	if c != nil {
		c.deadletters.Inc()
	}
}

// Processes returns the number of running processes
func (c *Counters) Processes() int64 {
	if c == nil {
		return 0
	}
	return c.processes.Load()
}

// Emitted returns the number of emitted messages
func (c *Counters) Emitted() int64 {
	if c == nil {
		return 0
	}
	return c.emitted.Load()
}

// Handled returns the number of handled messages
func (c *Counters) Handled() int64 {
	if c == nil {
		return 0
	}
	return c.handled.Load()
}

// Deadletters returns the number of deadletters
func (c *Counters) Deadletters() int64 {
	if c == nil {
		return 0
	}
	return c.deadletters.Load()
}
