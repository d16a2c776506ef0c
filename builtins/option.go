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

package builtins

import (
	"github.com/tochemey/mailport/bridge"
	"github.com/tochemey/mailport/process"
	"github.com/tochemey/mailport/value"
)

// Loader turns the program argument of proc.spawn into a runnable Program
type Loader func(program *value.Value) (process.Program, error)

type config struct {
	invoker bridge.Invoker
	loader  Loader
}

func newConfig(opts ...Option) *config {
	cfg := &config{invoker: bridge.ClosureInvoker}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	return cfg
}

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of the natives configuration.
	Apply(cfg *config)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*config)

// Apply applies the option
func (f OptionFunc) Apply(c *config) {
	f(c)
}

// WithInvoker sets how callbacks handed to the natives are called
func WithInvoker(invoker bridge.Invoker) Option {
	return OptionFunc(func(c *config) {
		if invoker != nil {
			c.invoker = invoker
		}
	})
}

// WithLoader sets how proc.spawn turns its program argument into a Program.
// Without a loader proc.spawn accepts closures only.
func WithLoader(loader Loader) Option {
	return OptionFunc(func(c *config) {
		c.loader = loader
	})
}
