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
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/eventstream"
	imetric "github.com/tochemey/mailport/internal/metric"
	"github.com/tochemey/mailport/internal/xsync"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/port"
	"github.com/tochemey/mailport/process"
	"github.com/tochemey/mailport/value"
)

const defaultShutdownTimeout = 30 * time.Second

// Host is the root of a process tree.
//
// It owns the sink port every spawned process reports to. Exit messages are claimed
// by the host and made available through AwaitExit; any other message emitted by a
// process without destination lands in the sink mailbox and can be read with Handler.
type Host struct {
	logger          log.Logger
	registry        port.Registry
	events          eventstream.Stream
	stats           *port.Stats
	meterProvider   metric.MeterProvider
	registration    metric.Registration
	shutdownTimeout time.Duration

	sink      *port.Port
	handler   *process.MessageHandler
	processes *xsync.Map[int64, *process.Process]

	mu      sync.Mutex
	exits   map[int64]*value.Value
	waiters map[int64]chan struct{}

	shutdown *atomic.Bool
}

// New creates a Host and allocates its sink port
func New(opts ...Option) (*Host, error) {
	h := &Host{
		logger:          log.DefaultLogger,
		registry:        port.DefaultRegistry(),
		stats:           port.NewStats(),
		shutdownTimeout: defaultShutdownTimeout,
		processes:       xsync.NewMap[int64, *process.Process](),
		exits:           make(map[int64]*value.Value),
		waiters:         make(map[int64]chan struct{}),
		shutdown:        atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(h)
	}

	if h.meterProvider != nil {
		if err := h.registerMetrics(); err != nil {
			return nil, err
		}
	}

	h.sink = port.New(
		port.WithInterceptor(h.intercept),
		port.WithRegistry(h.registry),
		port.WithLogger(h.logger),
		port.WithEventsStream(h.events),
		port.WithMetrics(h.stats),
	)
	h.handler = process.NewMessageHandler(h.sink.Mailbox(), h.logger)
	return h, nil
}

// PID returns the pid of the sink port
func (h *Host) PID() int64 {
	return h.sink.PID()
}

// Port returns the sink port
func (h *Host) Port() *port.Port {
	return h.sink
}

// Handler returns the wait protocol over the sink mailbox
func (h *Host) Handler() *process.MessageHandler {
	return h.handler
}

// Stats returns the runtime counters
func (h *Host) Stats() *port.Stats {
	return h.stats
}

// Process returns a running process spawned by the host
func (h *Host) Process(pid int64) (*process.Process, bool) {
	return h.processes.Get(pid)
}

// Processes returns the running processes spawned by the host
func (h *Host) Processes() []*process.Process {
	return h.processes.Values()
}

// Spawn creates a process reporting to the host and starts it with args
func (h *Host) Spawn(program process.Program, args *value.Value, opts ...process.Option) (*process.Process, error) {
	if h.shutdown.Load() {
		return nil, gerrors.ErrHostShutdown
	}

	procOpts := append([]process.Option{
		process.WithRegistry(h.registry),
		process.WithLogger(h.logger),
		process.WithEventsStream(h.events),
		process.WithMetrics(h.stats),
	}, opts...)

	proc, err := process.New(program, procOpts...)
	if err != nil {
		return nil, err
	}

	proc.Port().OnParentEmit(h.sink.Handle)
	h.processes.Set(proc.PID(), proc)

	if err := proc.Start(args); err != nil {
		h.processes.Delete(proc.PID())
		return nil, err
	}

	h.logger.Debugf("host (%d) spawned process %s (pid=%d)", h.sink.PID(), proc.Name(), proc.PID())
	return proc, nil
}

// Send emits payload from the host to pid and returns the message token
func (h *Host) Send(pid int64, payload *value.Value) (int64, error) {
	if h.shutdown.Load() {
		return 0, gerrors.ErrHostShutdown
	}
	return h.sink.EmitMessage(payload, pid)
}

// AwaitExit waits until the process pid emitted its exit message and returns that message:
// [pid, token, "process::exit", status, result]
func (h *Host) AwaitExit(ctx context.Context, pid int64) (*value.Value, error) {
	h.mu.Lock()
	if msg, ok := h.exits[pid]; ok {
		h.mu.Unlock()
		return msg, nil
	}

	if _, ok := h.processes.Get(pid); !ok {
		h.mu.Unlock()
		return nil, gerrors.NewErrDestinationNotFound(pid)
	}

	waiter, ok := h.waiters[pid]
	if !ok {
		waiter = make(chan struct{})
		h.waiters[pid] = waiter
	}
	h.mu.Unlock()

	select {
	case <-waiter:
		h.mu.Lock()
		defer h.mu.Unlock()
		if msg, ok := h.exits[pid]; ok {
			return msg, nil
		}
		return nil, gerrors.ErrHostShutdown
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown asks every running process to terminate and waits for them to exit,
// bounded by ctx and the shutdown timeout. Processes still running afterwards are detached.
func (h *Host) Shutdown(ctx context.Context) (err error) {
	if !h.shutdown.CompareAndSwap(false, true) {
		return gerrors.ErrHostShutdown
	}

	h.logger.Infof("host (%d) shutdown begins with %d running processes", h.sink.PID(), h.processes.Len())

	defer func() {
		h.sink.Close()
		h.releaseExits()
		if h.registration != nil {
			err = multierr.Combine(err, h.registration.Unregister())
		}
		err = multierr.Combine(err, h.logger.Flush())
	}()

	ctx, cancel := context.WithTimeout(ctx, h.shutdownTimeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	for _, proc := range h.processes.Values() {
		eg.Go(func() error {
			proc.Close()
			select {
			case <-proc.Done():
				return nil
			case <-ctx.Done():
				return fmt.Errorf("process (pid=%d) did not exit: %w", proc.PID(), ctx.Err())
			}
		})
	}

	if err := eg.Wait(); err != nil {
		h.logger.Errorf("host (%d) shutdown: %v", h.sink.PID(), err)
		return err
	}

	h.logger.Infof("host (%d) shutdown completed", h.sink.PID())
	return nil
}

// releaseExits drops the recorded exit messages and wakes the pending AwaitExit calls
func (h *Host) releaseExits() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.exits)
	for pid, waiter := range h.waiters {
		close(waiter)
		delete(h.waiters, pid)
	}
}

func (h *Host) intercept(msg *value.Value) bool {
	if msg.Index(2).String() != process.ExitCommand {
		return false
	}

	pid := msg.Index(0).Int()
	h.mu.Lock()
	h.exits[pid] = msg
	if waiter, ok := h.waiters[pid]; ok {
		close(waiter)
		delete(h.waiters, pid)
	}
	h.mu.Unlock()

	if proc, ok := h.processes.Get(pid); ok {
		h.processes.Delete(pid)
		h.logger.Debugf("host (%d) process %s (pid=%d) exited with %s", h.sink.PID(), proc.Name(), pid, msg.Index(3).String())
	}
	return true
}

func (h *Host) registerMetrics() error {
	meter := imetric.New(imetric.WithMeterProvider(h.meterProvider)).Meter()
	runtimeMetric, err := imetric.NewRuntimeMetric(meter)
	if err != nil {
		return err
	}

	registration, err := runtimeMetric.Register(meter, h.stats)
	if err != nil {
		return err
	}
	h.registration = registration
	return nil
}
