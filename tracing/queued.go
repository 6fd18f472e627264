// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"errors"
	"sync"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/querytrace/clock"
)

const (
	// DefaultQueueSize is the annotation buffer size used when none is configured.
	DefaultQueueSize = 1024

	// DefaultDrainTimeout is how long Close waits for buffered annotations to
	// reach the wrapped reporter.
	DefaultDrainTimeout = 5 * time.Second
)

// ErrDrainTimeout is returned by QueuedReporter.Close when buffered annotations
// could not be flushed within the configured drain timeout.
var ErrDrainTimeout = errors.New("annotation queue did not drain before the timeout")

// QueuedOption represents a configuration option for NewQueuedReporter.
type QueuedOption func(*QueuedReporter)

// WithQueueSize sets the annotation buffer size.  Sizes less than one leave
// the default in place.
func WithQueueSize(size int) QueuedOption {
	return func(qr *QueuedReporter) {
		if size > 0 {
			qr.queue = make(chan Annotation, size)
		}
	}
}

// WithDrainTimeout sets how long Close waits for the buffer to flush.
// Nonpositive durations leave the default in place.
func WithDrainTimeout(d time.Duration) QueuedOption {
	return func(qr *QueuedReporter) {
		if d > 0 {
			qr.drainTimeout = d
		}
	}
}

// WithClock sets the time source used for the drain deadline.  If c is nil,
// the system clock is used.
func WithClock(c clock.Interface) QueuedOption {
	return func(qr *QueuedReporter) {
		if c == nil {
			qr.clock = clock.System()
		} else {
			qr.clock = c
		}
	}
}

// WithDropCounter sets a counter incremented once for each annotation dropped
// because the queue was full or closed.  If c is nil, drops are not counted.
func WithDropCounter(c metrics.Counter) QueuedOption {
	return func(qr *QueuedReporter) {
		if c == nil {
			qr.drops = discard.NewCounter()
		} else {
			qr.drops = c
		}
	}
}

// NewQueuedReporter decorates next with a bounded queue drained by a single
// background goroutine, decoupling callers from slow sinks.  Report never
// blocks: when the queue is full the annotation is dropped and counted.  A
// nil next drops everything it receives.
func NewQueuedReporter(next Reporter, options ...QueuedOption) *QueuedReporter {
	if next == nil {
		next = Discard()
	}

	qr := &QueuedReporter{
		next:         next,
		clock:        clock.System(),
		drainTimeout: DefaultDrainTimeout,
		drops:        discard.NewCounter(),
		closed:       make(chan struct{}),
		drained:      make(chan struct{}),
	}

	for _, o := range options {
		o(qr)
	}

	if qr.queue == nil {
		qr.queue = make(chan Annotation, DefaultQueueSize)
	}

	go qr.drain()
	return qr
}

// QueuedReporter is a Reporter decorator that serializes annotation delivery
// through a bounded channel.
type QueuedReporter struct {
	next         Reporter
	clock        clock.Interface
	drainTimeout time.Duration
	drops        metrics.Counter

	queue     chan Annotation
	closeOnce sync.Once
	closed    chan struct{}
	drained   chan struct{}
}

func (qr *QueuedReporter) drain() {
	defer close(qr.drained)

	for {
		select {
		case a := <-qr.queue:
			qr.next.Report(a)
		case <-qr.closed:
			for {
				select {
				case a := <-qr.queue:
					qr.next.Report(a)
				default:
					return
				}
			}
		}
	}
}

// Report enqueues the annotation without blocking.  Annotations arriving after
// Close, or while the queue is full, are dropped and counted.
func (qr *QueuedReporter) Report(a Annotation) {
	select {
	case <-qr.closed:
		qr.drops.Add(1.0)
		return
	default:
	}

	select {
	case qr.queue <- a:
	default:
		qr.drops.Add(1.0)
	}
}

// Close stops intake and waits for buffered annotations to reach the wrapped
// reporter.  If the buffer does not flush within the drain timeout, Close
// abandons the wait and returns ErrDrainTimeout.  Only the first call has any
// effect; subsequent calls return nil immediately.
func (qr *QueuedReporter) Close() (err error) {
	qr.closeOnce.Do(func() {
		close(qr.closed)

		t := qr.clock.NewTimer(qr.drainTimeout)
		defer t.Stop()

		select {
		case <-qr.drained:
		case <-t.C():
			err = ErrDrainTimeout
		}
	})

	return
}
