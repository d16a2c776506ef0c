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

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetric groups the OpenTelemetry instruments describing the runtime.
//
// Instruments:
//   - mailport.processes.count   (Int64ObservableGauge)
//   - mailport.messages.emitted  (Int64ObservableCounter)
//   - mailport.messages.handled  (Int64ObservableCounter)
//   - mailport.deadletters.count (Int64ObservableCounter)
type RuntimeMetric struct {
	processesCount   metric.Int64ObservableGauge
	messagesEmitted  metric.Int64ObservableCounter
	messagesHandled  metric.Int64ObservableCounter
	deadlettersCount metric.Int64ObservableCounter
}

// NewRuntimeMetric creates the runtime instruments using the provided Meter.
func NewRuntimeMetric(meter metric.Meter) (*RuntimeMetric, error) {
	instruments := new(RuntimeMetric)
	var err error

	if instruments.processesCount, err = meter.Int64ObservableGauge(
		"mailport.processes.count",
		metric.WithDescription("Number of running processes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processesCount instrument, %w", err)
	}

	if instruments.messagesEmitted, err = meter.Int64ObservableCounter(
		"mailport.messages.emitted",
		metric.WithDescription("Total number of messages emitted by ports"),
	); err != nil {
		return nil, fmt.Errorf("failed to create messagesEmitted instrument, %w", err)
	}

	if instruments.messagesHandled, err = meter.Int64ObservableCounter(
		"mailport.messages.handled",
		metric.WithDescription("Total number of messages accepted by ports"),
	); err != nil {
		return nil, fmt.Errorf("failed to create messagesHandled instrument, %w", err)
	}

	if instruments.deadlettersCount, err = meter.Int64ObservableCounter(
		"mailport.deadletters.count",
		metric.WithDescription("Total number of messages addressed to unknown pids"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadlettersCount instrument, %w", err)
	}

	return instruments, nil
}

// ProcessesCount returns the gauge reporting running processes
func (x *RuntimeMetric) ProcessesCount() metric.Int64ObservableGauge {
	return x.processesCount
}

// MessagesEmitted returns the counter of emitted messages
func (x *RuntimeMetric) MessagesEmitted() metric.Int64ObservableCounter {
	return x.messagesEmitted
}

// MessagesHandled returns the counter of handled messages
func (x *RuntimeMetric) MessagesHandled() metric.Int64ObservableCounter {
	return x.messagesHandled
}

// DeadlettersCount returns the counter of deadletters
func (x *RuntimeMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return x.deadlettersCount
}

// Register observes the given counters on every collection cycle.
// The returned registration must be unregistered on shutdown.
func (x *RuntimeMetric) Register(meter metric.Meter, counters *Counters, opts ...metric.ObserveOption) (metric.Registration, error) {
	return meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(x.processesCount, counters.Processes(), opts...)
		observer.ObserveInt64(x.messagesEmitted, counters.Emitted(), opts...)
		observer.ObserveInt64(x.messagesHandled, counters.Handled(), opts...)
		observer.ObserveInt64(x.deadlettersCount, counters.Deadletters(), opts...)
		return nil
	}, x.processesCount, x.messagesEmitted, x.messagesHandled, x.deadlettersCount)
}
