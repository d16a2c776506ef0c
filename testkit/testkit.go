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

package testkit

import (
	"context"
	"testing"

	"github.com/tochemey/mailport/host"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/port"
	"github.com/tochemey/mailport/process"
	"github.com/tochemey/mailport/value"
)

// TestKit defines the processes test kit.
// Every kit owns its own registry so pids start at 0 and never collide between tests.
type TestKit struct {
	host   *host.Host
	kt     *testing.T
	logger log.Logger
}

// New creates an instance of TestKit
func New(t *testing.T, opts ...Option) *TestKit {
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(testkit)
	}

	h, err := host.New(
		host.WithRegistry(port.NewRegistry()),
		host.WithLogger(testkit.logger))
	if err != nil {
		t.Fatal(err.Error())
	}

	testkit.host = h
	return testkit
}

// Host returns the testkit host
func (k *TestKit) Host() *host.Host {
	return k.host
}

// Spawn creates and starts a process running program
func (k *TestKit) Spawn(program process.Program, args *value.Value) *process.Process {
	proc, err := k.host.Spawn(program, args)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return proc
}

// NewProbe create a test probe registered next to the spawned processes
func (k *TestKit) NewProbe() Probe {
	return newProbe(k.kt, k.host.Port().Registry())
}

// AwaitExit waits for the exit message of the process with pid
func (k *TestKit) AwaitExit(ctx context.Context, pid int64) *value.Value {
	exit, err := k.host.AwaitExit(ctx, pid)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return exit
}

// Shutdown stops the test kit
func (k *TestKit) Shutdown(ctx context.Context) {
	if err := k.host.Shutdown(ctx); err != nil {
		k.kt.Fatal(err.Error())
	}
}
