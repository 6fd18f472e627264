// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"errors"
	"sync"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/segmentio/ksuid"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"

	"github.com/xmidt-org/querytrace/tracing"
)

// ErrNoExecutorFactory is returned by New when no inner factory is supplied.
var ErrNoExecutorFactory = errors.New("an inner ExecutorFactory is required")

func init() {
	ksuid.SetRand(ksuid.FastRander)
}

// ExecutorFactory is the capability this package decorates: the integrating
// query engine's strategy for creating executors.
type ExecutorFactory interface {
	// New creates an executor for a single query.  The connection, query
	// classification, raw query text, and bind parameters are the engine's
	// to interpret; this package only decorates the result.
	New(conn Connection, kind QueryKind, queryText string, params ...interface{}) (Executor, error)
}

// ExecutorFactoryFunc is a function type that implements ExecutorFactory.
type ExecutorFactoryFunc func(Connection, QueryKind, string, ...interface{}) (Executor, error)

func (f ExecutorFactoryFunc) New(conn Connection, kind QueryKind, queryText string, params ...interface{}) (Executor, error) {
	return f(conn, kind, queryText, params...)
}

// TracerFactory constructs the tracer shared by every executor a factory
// creates.  The shutdown channel is closed when Interface.Shutdown is called,
// with semantics equivalent to context.Context.Done(); implementations that
// own background resources should release them when it closes.
type TracerFactory func(shutdown <-chan struct{}) (tracing.Tracer, error)

// Interface is a factory for traced executors.  Implementations are safe for
// concurrent use.
type Interface interface {
	// New obtains a base executor from the inner factory and wraps it in a
	// SpanRecorder bound to this factory's shared tracer.  The tracer is
	// built lazily, exactly once, on the first call; a tracer construction
	// error is cached and returned by every subsequent call.  New remains
	// usable while and after the factory shuts down.
	New(conn Connection, kind QueryKind, queryText string, params ...interface{}) (Executor, error)

	// Shutdown notifies the shared tracer that its services are no longer
	// required.  It is idempotent and nonblocking: it does not wait for
	// in-flight executions, and calling it again has no effect.
	Shutdown()

	// Closed returns a channel that is closed once Shutdown has been called.
	// Semantics are equivalent to context.Context.Done().
	Closed() <-chan struct{}
}

// Option represents a configuration option for a factory.
type Option func(*factory)

// WithTracerFactory sets the strategy for building the factory's shared
// tracer, replacing the default tracer built from Options.  If tf is nil,
// this option does nothing.
func WithTracerFactory(tf TracerFactory) Option {
	return func(f *factory) {
		if tf != nil {
			f.newTracer = tf
		}
	}
}

// WithLogger sets the zap logger used for factory lifecycle events.  If l is
// nil, sallust.Default() is used.
func WithLogger(l *zap.Logger) Option {
	return func(f *factory) {
		if l == nil {
			f.logger = sallust.Default()
		} else {
			f.logger = l
		}
	}
}

// WithLookup sets the hostname resolution strategy handed to each
// SpanRecorder.  If l is nil, net.DefaultResolver is used.
func WithLookup(l Lookup) Option {
	return func(f *factory) {
		f.lookup = l
	}
}

// WithMeasures instruments the factory and its recorders.
func WithMeasures(m *Measures) Option {
	return func(f *factory) {
		f.measures = m
	}
}

// WithNow sets the annotation time source handed to each SpanRecorder.  If
// now is nil, time.Now is used.
func WithNow(now func() time.Time) Option {
	return func(f *factory) {
		f.now = now
	}
}

// New constructs a tracing executor factory around inner.  o may be nil, in
// which case defaults are used for everything.  An invalid configuration,
// such as an unrecognized sampling policy, is reported here rather than at
// first use.
func New(inner ExecutorFactory, o *Options, options ...Option) (Interface, error) {
	if inner == nil {
		return nil, ErrNoExecutorFactory
	}

	sampler, err := o.sampler()
	if err != nil {
		return nil, err
	}

	f := &factory{
		inner:        inner,
		service:      o.serviceName(),
		annotate:     o.annotateQuery(),
		sampler:      sampler,
		queueSize:    o.queueSize(),
		drainTimeout: o.drainTimeout(),
		logger:       sallust.Default(),
		session:      ksuid.New().String(),
		shutdown:     make(chan struct{}),
	}

	for _, opt := range options {
		opt(f)
	}

	return f, nil
}

type factory struct {
	inner        ExecutorFactory
	service      string
	annotate     bool
	sampler      tracing.Sampler
	queueSize    int
	drainTimeout time.Duration

	newTracer TracerFactory
	logger    *zap.Logger
	lookup    Lookup
	measures  *Measures
	now       func() time.Time
	session   string

	initOnce sync.Once
	tracer   tracing.Tracer
	initErr  error

	closeOnce sync.Once
	shutdown  chan struct{}
}

func (f *factory) dropCounter() metrics.Counter {
	if f.measures != nil {
		return f.measures.AnnotationDropCount
	}

	return nil
}

// defaultTracer builds the tracer used when no TracerFactory is configured:
// annotations go to a zap log reporter, optionally behind a queued reporter
// that is closed when the shutdown channel closes.
func (f *factory) defaultTracer(shutdown <-chan struct{}) (tracing.Tracer, error) {
	var reporter tracing.Reporter = tracing.NewLogReporter(f.logger)

	if f.queueSize > 0 {
		queued := tracing.NewQueuedReporter(reporter,
			tracing.WithQueueSize(f.queueSize),
			tracing.WithDrainTimeout(f.drainTimeout),
			tracing.WithDropCounter(f.dropCounter()),
		)

		go func() {
			<-shutdown
			if err := queued.Close(); err != nil {
				f.logger.Warn("annotation queue did not drain cleanly",
					zap.String("session", f.session),
					zap.Error(err),
				)
			}
		}()

		reporter = queued
	}

	return tracing.New(
		tracing.WithSampler(f.sampler),
		tracing.WithReporter(reporter),
	), nil
}

func (f *factory) tracerInstance() (tracing.Tracer, error) {
	f.initOnce.Do(func() {
		tf := f.newTracer
		if tf == nil {
			tf = f.defaultTracer
		}

		f.tracer, f.initErr = tf(f.shutdown)
		if f.initErr != nil {
			f.logger.Error("unable to construct tracer",
				zap.String("session", f.session),
				zap.Error(f.initErr),
			)

			return
		}

		f.logger.Info("tracer constructed",
			zap.String("session", f.session),
			zap.String("service", f.service),
		)
	})

	return f.tracer, f.initErr
}

func (f *factory) New(conn Connection, kind QueryKind, queryText string, params ...interface{}) (Executor, error) {
	base, err := f.inner.New(conn, kind, queryText, params...)
	if err != nil {
		return nil, err
	}

	t, err := f.tracerInstance()
	if err != nil {
		return nil, err
	}

	return &SpanRecorder{
		Next:          base,
		Tracer:        t,
		Connection:    conn,
		Kind:          kind,
		ServiceName:   f.service,
		AnnotateQuery: f.annotate,
		Lookup:        f.lookup,
		Measures:      f.measures,
		Now:           f.now,
	}, nil
}

func (f *factory) Shutdown() {
	f.closeOnce.Do(func() {
		close(f.shutdown)
		f.logger.Info("tracing factory shut down", zap.String("session", f.session))
	})
}

func (f *factory) Closed() <-chan struct{} {
	return f.shutdown
}
