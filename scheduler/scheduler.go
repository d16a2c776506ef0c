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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/mailport/errors"
	"github.com/tochemey/mailport/log"
	"github.com/tochemey/mailport/port"
	"github.com/tochemey/mailport/value"
)

const (
	defaultStopTimeout = 5 * time.Second
	initialRetryDelay  = 10 * time.Millisecond
)

// Scheduler delivers messages to pids in the future.
// Deliveries are emitted from the sender port, so receivers see the sender pid and a
// fresh token in the envelope of every firing. Each firing sends a clone of the payload.
type Scheduler struct {
	// helps lock concurrent access
	mu sync.Mutex

	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	sender          *port.Port
	logger          log.Logger
	stopTimeout     time.Duration
	location        *time.Location
	maxRetries      int
	maxRetryDelay   time.Duration
}

// New creates a Scheduler delivering on behalf of sender
func New(sender *port.Port, opts ...Option) *Scheduler {
	// create an instance of quartz scheduler with logger off
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))

	scheduler := &Scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		sender:          sender,
		logger:          log.DefaultLogger,
		stopTimeout:     defaultStopTimeout,
		location:        time.Local,
	}

	for _, opt := range opts {
		opt.Apply(scheduler)
	}
	return scheduler
}

// Start starts the scheduler
func (x *Scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Info("starting messages scheduler...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Info("messages scheduler started.:)")
}

// Stop removes every pending delivery and stops the scheduler
func (x *Scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.logger.Info("stopping messages scheduler...")
	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)

	x.logger.Info("messages scheduler stopped...:)")
}

// ScheduleOnce delivers payload to pid once after interval.
// It returns the reference of the delivery, usable with Cancel.
func (x *Scheduler) ScheduleOnce(payload *value.Value, pid int64, interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", gerrors.ErrInvalidInterval
	}
	return x.schedule(payload, pid, func() (quartz.Trigger, error) {
		return quartz.NewRunOnceTrigger(interval), nil
	})
}

// Schedule delivers payload to pid every interval until cancelled
func (x *Scheduler) Schedule(payload *value.Value, pid int64, interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", gerrors.ErrInvalidInterval
	}
	return x.schedule(payload, pid, func() (quartz.Trigger, error) {
		return quartz.NewSimpleTrigger(interval), nil
	})
}

// ScheduleWithCron delivers payload to pid following a cron expression with seconds precision
func (x *Scheduler) ScheduleWithCron(payload *value.Value, pid int64, cronExpression string) (string, error) {
	return x.schedule(payload, pid, func() (quartz.Trigger, error) {
		trigger, err := quartz.NewCronTriggerWithLoc(cronExpression, x.location)
		if err != nil {
			x.logger.Error(fmt.Errorf("failed to schedule message: %w", err))
			return nil, err
		}
		return trigger, nil
	})
}

// Cancel removes a pending delivery
func (x *Scheduler) Cancel(reference string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	return x.quartzScheduler.DeleteJob(quartz.NewJobKey(reference))
}

func (x *Scheduler) schedule(payload *value.Value, pid int64, newTrigger func() (quartz.Trigger, error)) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return "", gerrors.ErrSchedulerNotStarted
	}

	trigger, err := newTrigger()
	if err != nil {
		return "", err
	}

	delivery := job.NewFunctionJob[int64](
		func(ctx context.Context) (int64, error) {
			x.awaitReceiver(ctx, pid)
			token, err := x.sender.EmitMessage(payload.Clone(), pid)
			if err != nil {
				x.logger.Warnf("scheduled delivery to pid=%d failed: %v", pid, err)
			}
			return token, err
		},
	)

	key := newJobKey()
	detail := quartz.NewJobDetail(delivery, quartz.NewJobKey(key))
	if err := x.quartzScheduler.ScheduleJob(detail, trigger); err != nil {
		return "", err
	}
	return key, nil
}

// awaitReceiver retries the lookup of pid when delivery retries are enabled
func (x *Scheduler) awaitReceiver(ctx context.Context, pid int64) {
	if x.maxRetries == 0 {
		return
	}

	retrier := retry.NewRetrier(x.maxRetries, initialRetryDelay, x.maxRetryDelay)
	_ = retrier.RunContext(ctx, func(context.Context) error {
		if _, ok := x.sender.Registry().Lookup(pid); !ok {
			return gerrors.NewErrDestinationNotFound(pid)
		}
		return nil
	})
}

// newJobKey creates a new job key
func newJobKey() string {
	return uuid.NewString()
}
