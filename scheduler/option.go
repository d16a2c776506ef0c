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

package scheduler

import (
	"time"

	"github.com/tochemey/mailport/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a Scheduler.
	Apply(scheduler *Scheduler)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Scheduler)

// Apply applies the option
func (f OptionFunc) Apply(s *Scheduler) {
	f(s)
}

// WithLogger sets the scheduler logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// WithStopTimeout bounds how long Stop waits for running deliveries
func WithStopTimeout(timeout time.Duration) Option {
	return OptionFunc(func(s *Scheduler) {
		if timeout > 0 {
			s.stopTimeout = timeout
		}
	})
}

// WithLocation sets the time zone cron expressions are evaluated in
func WithLocation(location *time.Location) Option {
	return OptionFunc(func(s *Scheduler) {
		if location != nil {
			s.location = location
		}
	})
}

// WithDeliveryRetries makes a firing wait for its receiver to be registered.
// The lookup is retried up to maxRetries times with an exponential backoff capped at maxDelay;
// the message is emitted afterwards in any case.
func WithDeliveryRetries(maxRetries int, maxDelay time.Duration) Option {
	return OptionFunc(func(s *Scheduler) {
		if maxRetries > 0 && maxDelay > 0 {
			s.maxRetries = maxRetries
			s.maxRetryDelay = maxDelay
		}
	})
}
