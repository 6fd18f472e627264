// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xmidt-org/querytrace/tracing"
	"github.com/xmidt-org/querytrace/tracing/tracingtest"
)

func TestNewNilInner(t *testing.T) {
	assert := assert.New(t)

	f, err := New(nil, nil)
	assert.Nil(f)
	assert.Equal(ErrNoExecutorFactory, err)
}

func TestNewInvalidSamplingPolicy(t *testing.T) {
	var (
		assert = assert.New(t)
		inner  = new(mockExecutorFactory)
	)

	f, err := New(inner, &Options{
		Sampler: SamplerOptions{Policy: "sometimes"},
	})

	assert.Nil(f)
	assert.Error(err)
	inner.AssertExpectations(t)
}

func TestFactoryNew(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		leaf   = &textExecutor{text: "SELECT 1"}
		conn   = new(mockConnection)
		lookup = new(mockLookup)
		inner  = new(mockExecutorFactory)

		constructions uint32
		tracer        = &tracingtest.Tracer{Decision: tracing.Sampled}

		now = func() time.Time { return time.Time{} }
	)

	inner.On("New", conn, QuerySelect, "SELECT 1", []interface{}{"param"}).
		Return(leaf, nil)

	f, err := New(inner,
		&Options{
			ServiceName:   "inventory",
			AnnotateQuery: true,
		},
		WithTracerFactory(func(shutdown <-chan struct{}) (tracing.Tracer, error) {
			atomic.AddUint32(&constructions, 1)
			return tracer, nil
		}),
		WithLookup(lookup),
		WithNow(now),
	)

	require.NoError(err)
	require.NotNil(f)

	// no tracer until the first executor is created
	assert.Zero(atomic.LoadUint32(&constructions))

	e, err := f.New(conn, QuerySelect, "SELECT 1", "param")
	require.NoError(err)
	require.NotNil(e)

	sr, ok := e.(*SpanRecorder)
	require.True(ok)
	assert.Equal(Executor(leaf), sr.Next)
	assert.Equal(tracing.Tracer(tracer), sr.Tracer)
	assert.Equal(Connection(conn), sr.Connection)
	assert.Equal(QuerySelect, sr.Kind)
	assert.Equal("inventory", sr.ServiceName)
	assert.True(sr.AnnotateQuery)
	assert.Equal(Lookup(lookup), sr.Lookup)
	assert.NotNil(sr.Now)

	// the same tracer is shared by every executor, even under concurrency
	var wg sync.WaitGroup
	for repeat := 0; repeat < 20; repeat++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			other, err := f.New(conn, QuerySelect, "SELECT 1", "param")
			assert.NoError(err)
			if other, ok := other.(*SpanRecorder); assert.True(ok) {
				assert.Equal(tracing.Tracer(tracer), other.Tracer)
			}
		}()
	}

	wg.Wait()
	assert.Equal(uint32(1), atomic.LoadUint32(&constructions))

	inner.AssertExpectations(t)
}

func TestFactoryInnerError(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expectedErr = errors.New("the engine rejected the query")
		inner       = new(mockExecutorFactory)

		constructions uint32
	)

	inner.On("New", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, expectedErr)

	f, err := New(inner, nil,
		WithTracerFactory(func(<-chan struct{}) (tracing.Tracer, error) {
			atomic.AddUint32(&constructions, 1)
			return tracing.Nop(), nil
		}),
	)

	require.NoError(err)

	e, err := f.New(nil, QuerySelect, "SELECT 1")
	assert.Nil(e)
	assert.Equal(expectedErr, err)

	// an inner failure never triggers tracer construction
	assert.Zero(atomic.LoadUint32(&constructions))
	inner.AssertExpectations(t)
}

func TestFactoryTracerError(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expectedErr = errors.New("no tracer for you")
		inner       = new(mockExecutorFactory)

		constructions uint32
	)

	inner.On("New", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&textExecutor{}, nil)

	f, err := New(inner, nil,
		WithTracerFactory(func(<-chan struct{}) (tracing.Tracer, error) {
			atomic.AddUint32(&constructions, 1)
			return nil, expectedErr
		}),
	)

	require.NoError(err)

	e, err := f.New(nil, QuerySelect, "SELECT 1")
	assert.Nil(e)
	assert.Equal(expectedErr, err)

	// the construction error is cached, not retried
	e, err = f.New(nil, QuerySelect, "SELECT 1")
	assert.Nil(e)
	assert.Equal(expectedErr, err)
	assert.Equal(uint32(1), atomic.LoadUint32(&constructions))
}

func TestFactoryShutdown(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		inner = new(mockExecutorFactory)

		notified <-chan struct{}
	)

	inner.On("New", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&textExecutor{}, nil)

	f, err := New(inner, nil,
		WithTracerFactory(func(shutdown <-chan struct{}) (tracing.Tracer, error) {
			notified = shutdown
			return tracing.Nop(), nil
		}),
	)

	require.NoError(err)

	_, err = f.New(nil, QuerySelect, "SELECT 1")
	require.NoError(err)
	require.NotNil(notified)

	select {
	case <-notified:
		require.Fail("the shutdown channel must remain open until Shutdown")
	default:
	}

	f.Shutdown()

	select {
	case <-notified:
	default:
		require.Fail("Shutdown did not close the notification channel")
	}

	select {
	case <-f.Closed():
	default:
		require.Fail("Closed must report a shut down factory")
	}

	// idempotent
	f.Shutdown()

	// the factory remains usable after shutdown
	e, err := f.New(nil, QuerySelect, "SELECT 1")
	assert.NoError(err)
	assert.NotNil(e)
}

func TestFactoryDefaultTracer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		core, logs = observer.New(zapcore.DebugLevel)
		inner      = new(mockExecutorFactory)
	)

	inner.On("New", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&textExecutor{text: "SELECT 1"}, nil)

	f, err := New(inner,
		&Options{
			ServiceName: "inventory",
			Sampler:     SamplerOptions{Policy: AlwaysPolicy},
		},
		WithLogger(zap.New(core)),
	)

	require.NoError(err)

	e, err := f.New(nil, QuerySelect, "SELECT 1")
	require.NoError(err)

	_, err = e.Execute(context.Background())
	require.NoError(err)

	// query text, name, send, and receive reach the log reporter synchronously
	assert.Equal(4, logs.FilterMessage("span annotation").Len())
}

func TestFactoryDefaultTracerQueued(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		core, logs = observer.New(zapcore.DebugLevel)
		inner      = new(mockExecutorFactory)
	)

	inner.On("New", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&textExecutor{text: "SELECT 1"}, nil)

	f, err := New(inner,
		&Options{
			ServiceName: "inventory",
			Sampler:     SamplerOptions{Policy: AlwaysPolicy},
			Queue:       QueueOptions{Size: 100},
		},
		WithLogger(zap.New(core)),
	)

	require.NoError(err)

	e, err := f.New(nil, QuerySelect, "SELECT 1")
	require.NoError(err)

	_, err = e.Execute(context.Background())
	require.NoError(err)

	// shutdown closes the queue, which flushes any buffered annotations
	f.Shutdown()

	deadline := time.Now().Add(5 * time.Second)
	for logs.FilterMessage("span annotation").Len() < 4 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(4, logs.FilterMessage("span annotation").Len())
}
