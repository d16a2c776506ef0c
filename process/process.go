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
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/eventstream"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/port"
	"github.com/tochemey/mailport/value"
)

const (
	// ExitCommand is the command of the message a process emits to its parent when its program returned
	ExitCommand = "process::exit"
	// TerminateCommand is the command of the control message asking a process to stop
	TerminateCommand = "process::terminate"

	// ExitOK is the exit status of a program that returned a value
	ExitOK = "ok"
	// ExitException is the exit status of a program that failed or panicked
	ExitException = "exception"
)

// Process runs a Program on its own goroutine and owns exactly one Port.
//
// Termination is cooperative: Terminate and Close deliver a "process::terminate"
// control message which sets the termination flag before being queued, and the
// program is expected to poll IsTerminated or wait for that message.
type Process struct {
	name           string
	program        Program
	logger         log.Logger
	autoDelete     bool
	messageLogging bool
	lockOSThread   bool
	registry       port.Registry
	events         eventstream.Stream
	stats          *port.Stats

	port      *port.Port
	handler   *MessageHandler
	resources *Resources

	started    *atomic.Bool
	terminated *atomic.Bool
	joined     *atomic.Bool
	disposed   *atomic.Bool
	state      *atomic.Int32
	done       chan struct{}

	resultMu sync.RWMutex
	result   *value.Value
	err      error

	loopMu sync.Mutex
	loop   EventLoop
}

// New creates a Process for program. The process port is registered right away,
// so messages sent before Start are queued.
func New(program Program, opts ...Option) (*Process, error) {
	if program == nil {
		return nil, gerrors.ErrNilProgram
	}

	p := &Process{
		program:    program,
		logger:     log.DefaultLogger,
		registry:   port.DefaultRegistry(),
		resources:  newResources(),
		started:    atomic.NewBool(false),
		terminated: atomic.NewBool(false),
		joined:     atomic.NewBool(false),
		disposed:   atomic.NewBool(false),
		state:      atomic.NewInt32(int32(Created)),
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt.Apply(p)
	}

	portOpts := []port.Option{
		port.WithInterceptor(p.intercept),
		port.WithRegistry(p.registry),
		port.WithLogger(p.logger),
		port.WithEventsStream(p.events),
		port.WithMetrics(p.stats),
	}
	if p.messageLogging {
		portOpts = append(portOpts, port.WithMessageLogging())
	}

	p.port = port.New(portOpts...)
	p.handler = NewMessageHandler(p.port.Mailbox(), p.logger)
	p.port.OnMessageArrived(p.notifyMessageArrived)

	if p.name == "" {
		p.name = fmt.Sprintf("process-%d", p.port.PID())
	}
	return p, nil
}

// Start runs the program with args on a new goroutine.
// A process starts at most once; later calls return ErrProcessAlreadyStarted and do nothing.
func (p *Process) Start(args *value.Value) error {
	if !p.started.CompareAndSwap(false, true) {
		return gerrors.ErrProcessAlreadyStarted
	}

	p.terminated.Store(false)
	p.state.Store(int32(Started))
	go p.run(args)
	return nil
}

// Join blocks until the program returned. It returns immediately for a process never started.
func (p *Process) Join() {
	if !p.started.Load() {
		return
	}
	<-p.done
	p.joined.Store(true)
}

// Close asks a running process to terminate and detaches from it without waiting.
// The port is unregistered, so the process can no longer be addressed by pid.
func (p *Process) Close() {
	if p.started.Load() && !p.joined.Load() {
		select {
		case <-p.done:
		default:
			p.terminated.Store(true)
			p.Terminate()
		}
	}
	p.port.Close()
}

// Terminate delivers the terminate control message to the process itself
func (p *Process) Terminate() {
	_, _ = p.port.EmitMessage(value.NewList(value.NewString(TerminateCommand)), p.port.PID())
}

// IsTerminated reports whether the process was asked to stop
func (p *Process) IsTerminated() bool {
	return p.terminated.Load()
}

// State returns the lifecycle state
func (p *Process) State() State {
	return State(p.state.Load())
}

// PID returns the pid of the process port
func (p *Process) PID() int64 {
	return p.port.PID()
}

// Name returns the process name
func (p *Process) Name() string {
	return p.name
}

// Port returns the process port
func (p *Process) Port() *port.Port {
	return p.port
}

// Handler returns the wait protocol of the process mailbox
func (p *Process) Handler() *MessageHandler {
	return p.handler
}

// Resources returns the resource table of the process
func (p *Process) Resources() *Resources {
	return p.resources
}

// Logger returns the process logger
func (p *Process) Logger() log.Logger {
	return p.logger
}

// Done is closed once the program returned and the exit message was emitted
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Result returns the value and error of the program.
// It returns ErrProcessNotStarted until the program returned.
func (p *Process) Result() (*value.Value, error) {
	select {
	case <-p.done:
	default:
		return nil, gerrors.ErrProcessNotStarted
	}
	p.resultMu.RLock()
	defer p.resultMu.RUnlock()
	return p.result, p.err
}

// AddDefaultHandler installs handler for unclaimed messages and returns its token
func (p *Process) AddDefaultHandler(handler Handler) int64 {
	token := p.port.NewToken()
	p.handler.AddDefaultHandler(token, handler)
	return token
}

// RemoveDefaultHandler uninstalls the handler registered under token
func (p *Process) RemoveDefaultHandler(token int64) {
	p.handler.RemoveDefaultHandler(token)
}

// SpawnChild creates and starts a process whose messages emitted without destination
// are handled by this process. The child is disposed once its program returned.
func (p *Process) SpawnChild(program Program, args *value.Value, opts ...Option) (*Process, error) {
	childOpts := append([]Option{
		WithAutoDelete(),
		WithRegistry(p.registry),
		WithLogger(p.logger),
		WithEventsStream(p.events),
		WithMetrics(p.stats),
	}, opts...)

	child, err := New(program, childOpts...)
	if err != nil {
		return nil, err
	}

	child.port.OnParentEmit(p.port.Handle)
	if err := child.Start(args); err != nil {
		return nil, err
	}
	return child, nil
}

// SetEventLoop attaches loop to the process. Arrival notifications are forwarded to
// the loop which drains the mailbox into the default handlers on its own goroutine.
func (p *Process) SetEventLoop(loop EventLoop) {
	p.loopMu.Lock()
	p.loop = loop
	p.loopMu.Unlock()

	if loop == nil {
		return
	}

	loop.SetSynchronizedHandler(p.handler.ProcessMessagesNow)
	loop.SetDestroyHandler(func() {
		p.loopMu.Lock()
		if p.loop == loop {
			p.loop = nil
		}
		p.loopMu.Unlock()
	})
}

func (p *Process) notifyMessageArrived() {
	p.loopMu.Lock()
	defer p.loopMu.Unlock()
	if p.loop != nil {
		p.loop.NotifyMessageArrived(p)
	}
}

// intercept sets the termination flag on the terminate control message and lets it through
func (p *Process) intercept(msg *value.Value) bool {
	if msg.Index(2).String() == TerminateCommand {
		p.terminated.Store(true)
	}
	return false
}

func (p *Process) run(args *value.Value) {
	defer close(p.done)

	if p.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	pid := p.port.PID()
	p.state.Store(int32(Running))
	p.stats.ProcessStarted()
	p.logger.Debugf("*PROCESS START* %d", pid)
	p.publish(eventstream.LifecycleTopic, &eventstream.ProcessStarted{
		PID:       pid,
		Name:      p.name,
		StartedAt: time.Now(),
	})

	result, err := p.execute(args)

	p.handler.ClearDefaultHandlers()
	p.port.Mailbox().Clear()

	p.resultMu.Lock()
	p.result, p.err = result, err
	p.resultMu.Unlock()

	status, payload := ExitOK, result
	if err != nil {
		p.logger.Errorf("*PROCESS EXCEPTION* (%d): %v", pid, err)
		status, payload = ExitException, value.NewString(err.Error())
	}

	_, _ = p.port.EmitMessage(value.NewList(value.NewString(ExitCommand), value.NewString(status), payload))
	p.logger.Debugf("*PROCESS END* %d", pid)

	p.stats.ProcessExited()
	p.publish(eventstream.LifecycleTopic, &eventstream.ProcessExited{
		PID:      pid,
		Name:     p.name,
		Status:   status,
		Result:   payload,
		ExitedAt: time.Now(),
	})
	p.state.Store(int32(Exited))

	if p.autoDelete {
		p.dispose()
	}
}

func (p *Process) execute(args *value.Value) (result *value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, gerrors.FromRecovered(r, 2)
		}
	}()

	if args == nil {
		args = value.NewList()
	}

	result, err = p.program.Execute(p, args)
	if err == nil && result == nil {
		result = value.NewUndef()
	}
	return result, err
}

func (p *Process) dispose() {
	if !p.disposed.CompareAndSwap(false, true) {
		return
	}
	p.SetEventLoop(nil)
	p.port.Close()
	p.resources.Clear()
}

func (p *Process) publish(topic string, event any) {
	if p.events != nil {
		p.events.Publish(topic, event)
	}
}
