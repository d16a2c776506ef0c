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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/goleak"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/eventstream"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/port"
	"github.com/tochemey/mailport/process"
	"github.com/tochemey/mailport/value"
)

func newTestHost(t *testing.T, opts ...Option) *Host {
	t.Helper()
	opts = append([]Option{WithRegistry(port.NewRegistry()), WithLogger(log.DiscardLogger)}, opts...)
	h, err := New(opts...)
	require.NoError(t, err)
	return h
}

var sender = process.ProgramFunc(func(p *process.Process, args *value.Value) (*value.Value, error) {
	_, err := p.Port().EmitMessage(value.NewList(value.NewString("num"), args.Index(0)))
	return nil, err
})

func TestHost(t *testing.T) {
	t.Run("With sum collected from spawned processes", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.Background()
		h := newTestHost(t)
		require.EqualValues(t, 0, h.PID())

		var pids []int64
		for _, n := range []int64{12, 20, 50, 70} {
			proc, err := h.Spawn(sender, value.NewList(value.NewInt(n)))
			require.NoError(t, err)
			pids = append(pids, proc.PID())
		}

		var sum int64
		for range 4 {
			msg, err := h.Handler().WaitContext(ctx, value.NewString("num"))
			require.NoError(t, err)
			sum += msg.Index(3).Int()
		}
		assert.EqualValues(t, 152, sum)

		for _, pid := range pids {
			exit, err := h.AwaitExit(ctx, pid)
			require.NoError(t, err)
			assert.Equal(t, pid, exit.Index(0).Int())
			assert.Equal(t, process.ExitOK, exit.Index(3).String())
		}
		require.Eventually(t, func() bool { return len(h.Processes()) == 0 }, time.Second, 10*time.Millisecond)
		require.NoError(t, h.Shutdown(ctx))
	})

	t.Run("With end to end exit message", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.Background()
		h := newTestHost(t)

		main := process.ProgramFunc(func(p *process.Process, _ *value.Value) (*value.Value, error) {
			for _, n := range []int64{12, 20, 50, 70} {
				if _, err := p.SpawnChild(sender, value.NewList(value.NewInt(n))); err != nil {
					return nil, err
				}
			}
			var sum int64
			for range 4 {
				sum += p.Handler().WaitInfinite(value.NewString("num")).Index(3).Int()
			}
			return value.NewInt(sum), nil
		})

		proc, err := h.Spawn(main, nil)
		require.NoError(t, err)

		exit, err := h.AwaitExit(ctx, proc.PID())
		require.NoError(t, err)
		expected := value.NewList(
			value.NewInt(proc.PID()),
			value.NewInt(0),
			value.NewString(process.ExitCommand),
			value.NewString(process.ExitOK),
			value.NewInt(152),
		)
		assert.True(t, value.Equal(expected, exit), value.Dump(exit))

		again, err := h.AwaitExit(ctx, proc.PID())
		require.NoError(t, err)
		assert.Same(t, exit, again)

		// the sink and the exited main process stay registered, the children dispose themselves
		require.Eventually(t, func() bool { return h.registry.Len() == 2 }, time.Second, 10*time.Millisecond)
		require.NoError(t, h.Shutdown(ctx))
	})

	t.Run("With request and reply", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.Background()
		h := newTestHost(t)

		responder := process.ProgramFunc(func(p *process.Process, _ *value.Value) (*value.Value, error) {
			request := p.Handler().WaitInfinite(value.NewString("ping"))
			reply := value.NewList(value.NewString("pong"), request.Index(1))
			_, err := p.Port().EmitMessage(reply, request.Index(0).Int())
			return nil, err
		})

		proc, err := h.Spawn(responder, nil)
		require.NoError(t, err)

		token, err := h.Send(proc.PID(), value.NewList(value.NewString("ping")))
		require.NoError(t, err)

		reply, err := h.Handler().WaitContext(ctx, value.NewString("pong"))
		require.NoError(t, err)
		assert.Equal(t, token, reply.Index(3).Int())
		assert.Equal(t, proc.PID(), reply.Index(0).Int())

		_, err = h.AwaitExit(ctx, proc.PID())
		require.NoError(t, err)
		require.NoError(t, h.Shutdown(ctx))
	})

	t.Run("With failing program", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.Background()
		h := newTestHost(t)

		proc, err := h.Spawn(process.ProgramFunc(func(*process.Process, *value.Value) (*value.Value, error) {
			panic("bad script")
		}), nil)
		require.NoError(t, err)

		exit, err := h.AwaitExit(ctx, proc.PID())
		require.NoError(t, err)
		assert.Equal(t, process.ExitException, exit.Index(3).String())
		assert.Contains(t, exit.Index(4).String(), "bad script")
		require.NoError(t, h.Shutdown(ctx))
	})

	t.Run("With unknown pid", func(t *testing.T) {
		h := newTestHost(t)
		_, err := h.AwaitExit(context.Background(), 42)
		assert.ErrorIs(t, err, gerrors.ErrDestinationNotFound)

		_, err = h.Send(42, value.NewString("lost"))
		assert.ErrorIs(t, err, gerrors.ErrDestinationNotFound)
		require.NoError(t, h.Shutdown(context.Background()))
	})

	t.Run("With await exit bounded by context", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		h := newTestHost(t)

		proc, err := h.Spawn(process.ProgramFunc(func(p *process.Process, _ *value.Value) (*value.Value, error) {
			p.Handler().WaitInfinite(value.NewString(process.TerminateCommand))
			return nil, nil
		}), nil)
		require.NoError(t, err)

		found, ok := h.Process(proc.PID())
		require.True(t, ok)
		assert.Same(t, proc, found)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = h.AwaitExit(ctx, proc.PID())
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, h.Shutdown(context.Background()))
		assert.True(t, proc.IsTerminated())
	})

	t.Run("With shutdown", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.Background()
		stats := port.NewStats()
		h := newTestHost(t, WithMetrics(stats), WithShutdownTimeout(time.Second))

		polling := process.ProgramFunc(func(p *process.Process, _ *value.Value) (*value.Value, error) {
			for !p.IsTerminated() {
				p.Handler().Wait(value.NewString("never"), 10*time.Millisecond)
			}
			return nil, nil
		})

		for range 3 {
			_, err := h.Spawn(polling, nil)
			require.NoError(t, err)
		}
		require.Eventually(t, func() bool { return stats.Processes() == 3 }, time.Second, 10*time.Millisecond)

		require.NoError(t, h.Shutdown(ctx))
		assert.Zero(t, stats.Processes())
		assert.Same(t, stats, h.Stats())

		_, err := h.Spawn(polling, nil)
		assert.ErrorIs(t, err, gerrors.ErrHostShutdown)
		_, err = h.Send(0, value.NewString("late"))
		assert.ErrorIs(t, err, gerrors.ErrHostShutdown)
		assert.ErrorIs(t, h.Shutdown(ctx), gerrors.ErrHostShutdown)
	})

	t.Run("With shutdown releasing recorded exits", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.Background()
		h := newTestHost(t, WithShutdownTimeout(100*time.Millisecond))

		done, err := h.Spawn(process.ProgramFunc(func(*process.Process, *value.Value) (*value.Value, error) {
			return nil, nil
		}), nil)
		require.NoError(t, err)
		_, err = h.AwaitExit(ctx, done.PID())
		require.NoError(t, err)

		stuck, err := h.Spawn(process.ProgramFunc(func(p *process.Process, _ *value.Value) (*value.Value, error) {
			p.Handler().WaitInfinite(value.NewString("release"))
			return nil, nil
		}), nil)
		require.NoError(t, err)

		awaited := make(chan error, 1)
		go func() {
			_, err := h.AwaitExit(ctx, stuck.PID())
			awaited <- err
		}()
		require.Eventually(t, func() bool {
			h.mu.Lock()
			defer h.mu.Unlock()
			return len(h.waiters) == 1
		}, time.Second, 10*time.Millisecond)

		require.Error(t, h.Shutdown(ctx))
		assert.ErrorIs(t, <-awaited, gerrors.ErrHostShutdown)

		h.mu.Lock()
		assert.Empty(t, h.exits)
		h.mu.Unlock()
		_, err = h.AwaitExit(ctx, done.PID())
		assert.ErrorIs(t, err, gerrors.ErrDestinationNotFound)

		stuck.Port().Handle(value.NewList(value.NewInt(0), value.NewInt(0), value.NewString("release")))
		<-stuck.Done()
	})

	t.Run("With shutdown timing out on a stuck process", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		h := newTestHost(t, WithShutdownTimeout(100*time.Millisecond))

		proc, err := h.Spawn(process.ProgramFunc(func(p *process.Process, _ *value.Value) (*value.Value, error) {
			p.Handler().WaitInfinite(value.NewString("release"))
			return nil, nil
		}), nil)
		require.NoError(t, err)

		err = h.Shutdown(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		proc.Port().Handle(value.NewList(value.NewInt(0), value.NewInt(0), value.NewString("release")))
		<-proc.Done()
	})

	t.Run("With meter provider and events", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.Background()
		stream := eventstream.New()
		defer stream.Close()
		subscriber := stream.AddSubscriber()
		stream.Subscribe(subscriber, eventstream.DeadlettersTopic)

		h := newTestHost(t, WithMeterProvider(noop.NewMeterProvider()), WithEventsStream(stream))
		require.NotNil(t, h.registration)
		assert.Same(t, h.sink, h.Port())

		_, err := h.Send(1000, value.NewString("nobody"))
		require.ErrorIs(t, err, gerrors.ErrDestinationNotFound)

		event, ok := subscriber.Wait(time.Second)
		require.True(t, ok)
		deadletter, ok := event.Payload().(*eventstream.Deadletter)
		require.True(t, ok)
		assert.EqualValues(t, 1000, deadletter.Receiver)
		assert.EqualValues(t, 1, h.Stats().Deadletters())

		require.NoError(t, h.Shutdown(ctx))
	})
}
