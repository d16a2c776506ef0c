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
	"sync"

	"go.uber.org/atomic"
)

// EventLoop runs message handling of a process on a goroutine the process does not own.
//
// When attached with Process.SetEventLoop, the loop receives the function draining the
// mailbox into the default handlers and a destroy hook detaching it from the process.
// NotifyMessageArrived is called on the pushing goroutine for every queued message and
// must not block.
type EventLoop interface {
	SetSynchronizedHandler(fn func())
	SetDestroyHandler(fn func())
	NotifyMessageArrived(proc *Process)
}

// Loop is an EventLoop backed by its own goroutine.
// Arrival notifications are coalesced: one drain handles every message queued before it ran.
type Loop struct {
	mu           sync.Mutex
	synchronized func()
	onDestroy    func()

	wakeup    chan struct{}
	stop      chan struct{}
	wg        sync.WaitGroup
	started   *atomic.Bool
	destroyed *atomic.Bool
}

// enforce compilation error
var _ EventLoop = (*Loop)(nil)

// NewLoop creates a Loop. Call Start to run it.
func NewLoop() *Loop {
	return &Loop{
		wakeup:    make(chan struct{}, 1),
		stop:      make(chan struct{}),
		started:   atomic.NewBool(false),
		destroyed: atomic.NewBool(false),
	}
}

// SetSynchronizedHandler sets the function called on the loop goroutine after arrivals
func (l *Loop) SetSynchronizedHandler(fn func()) {
	l.mu.Lock()
	l.synchronized = fn
	l.mu.Unlock()
}

// SetDestroyHandler sets the function called once by Destroy
func (l *Loop) SetDestroyHandler(fn func()) {
	l.mu.Lock()
	l.onDestroy = fn
	l.mu.Unlock()
}

// NotifyMessageArrived schedules a drain
func (l *Loop) NotifyMessageArrived(*Process) {
	select {
	case l.wakeup <- struct{}{}:
	default:
	}
}

// Start launches the loop goroutine. Subsequent calls are no-op.
func (l *Loop) Start() {
	if !l.started.CompareAndSwap(false, true) {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case <-l.stop:
				return
			case <-l.wakeup:
				l.mu.Lock()
				fn := l.synchronized
				l.mu.Unlock()
				if fn != nil {
					fn()
				}
			}
		}
	}()
}

// Destroy stops the loop goroutine and runs the destroy handler
func (l *Loop) Destroy() {
	if !l.destroyed.CompareAndSwap(false, true) {
		return
	}

	close(l.stop)
	l.wg.Wait()

	l.mu.Lock()
	fn := l.onDestroy
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}
