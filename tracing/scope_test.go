// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStartRoot(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		sampled []ID

		tracer = New(
			WithIDGenerator(func() uint64 { return 99 }),
			WithSampler(SamplerFunc(func(id ID) Decision {
				sampled = append(sampled, id)
				return Sampled
			})),
		)
	)

	ctx, scope := Start(context.Background(), tracer)
	require.NotNil(ctx)
	require.NotNil(scope)
	defer scope.Close()

	assert.Equal(ID{Trace: 99, Span: 99, Decision: Sampled}, scope.ID())
	assert.Equal([]ID{{Trace: 99, Span: 99}}, sampled)
	assert.Equal(tracer, scope.Tracer())

	ambientTracer, ok := GetTracer(ctx)
	require.True(ok)
	assert.Equal(tracer, ambientTracer)

	ambientID, ok := GetID(ctx)
	require.True(ok)
	assert.Equal(scope.ID(), ambientID)
}

func testStartChildInherits(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		tracer = New(
			WithIDGenerator(func() uint64 { return 200 }),
			WithSampler(SamplerFunc(func(ID) Decision {
				assert.Fail("the sampling policy should not be consulted for resolved parents")
				return NotSampled
			})),
		)

		parent = ID{Trace: 100, Span: 150, Decision: Sampled}
	)

	ctx, scope := Start(WithID(context.Background(), parent), tracer)
	require.NotNil(scope)
	defer scope.Close()

	assert.Equal(ID{Trace: 100, Span: 200, Parent: 150, Decision: Sampled}, scope.ID())

	ambientID, ok := GetID(ctx)
	require.True(ok)
	assert.Equal(scope.ID(), ambientID)
}

func testStartChildUnresolved(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		tracer = New(
			WithIDGenerator(func() uint64 { return 200 }),
			WithSampler(Never()),
		)

		parent = ID{Trace: 100, Span: 150}
	)

	_, scope := Start(WithID(context.Background(), parent), tracer)
	require.NotNil(scope)
	defer scope.Close()

	// the parent never resolved a decision, so the policy applies here
	assert.Equal(ID{Trace: 100, Span: 200, Parent: 150, Decision: NotSampled}, scope.ID())
}

func testStartNilTracer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	ctx, scope := Start(context.Background(), nil)
	require.NotNil(ctx)
	require.NotNil(scope)
	defer scope.Close()

	assert.True(scope.ID().IsZero())
	require.NotNil(scope.Tracer())

	// recording through a nop tracer must not panic
	scope.Event(ClientSend)
}

func TestStart(t *testing.T) {
	t.Run("Root", testStartRoot)
	t.Run("ChildInherits", testStartChildInherits)
	t.Run("ChildUnresolved", testStartChildUnresolved)
	t.Run("NilTracer", testStartNilTracer)
}

func TestScopeRecord(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expectedTime = time.Now()
		recorded     []Annotation

		tracer = New(
			WithIDGenerator(func() uint64 { return 37 }),
			WithSampler(Always()),
			WithReporter(ReporterFunc(func(a Annotation) {
				recorded = append(recorded, a)
			})),
		)
	)

	_, scope := Start(
		context.Background(),
		tracer,
		Now(func() time.Time { return expectedTime }),
	)

	require.NotNil(scope)
	defer scope.Close()

	scope.Event(ClientSend)
	scope.Tag(TagServiceName, "inventory")
	scope.Binary(BinaryQuery, []byte("SELECT 1"))
	scope.ClientAddress("10.0.0.5")
	scope.Name("inventory", "select")

	require.Len(recorded, 5)
	for _, a := range recorded {
		assert.Equal(scope.ID(), a.ID)
		assert.Equal(expectedTime, a.Time)
	}

	assert.Equal(Annotation{ID: scope.ID(), Kind: KindEvent, Key: ClientSend, Time: expectedTime}, recorded[0])
	assert.Equal(Annotation{ID: scope.ID(), Kind: KindTag, Key: TagServiceName, Value: "inventory", Time: expectedTime}, recorded[1])
	assert.Equal(Annotation{ID: scope.ID(), Kind: KindBinary, Key: BinaryQuery, Bytes: []byte("SELECT 1"), Time: expectedTime}, recorded[2])
	assert.Equal(Annotation{ID: scope.ID(), Kind: KindClientAddress, Host: "10.0.0.5", Time: expectedTime}, recorded[3])
	assert.Equal(Annotation{ID: scope.ID(), Kind: KindName, Service: "inventory", Value: "select", Time: expectedTime}, recorded[4])
}

func TestScopeClose(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		closeCount int
		recorded   []Annotation

		tracer = New(
			WithReporter(ReporterFunc(func(a Annotation) {
				recorded = append(recorded, a)
			})),
		)
	)

	_, scope := Start(
		context.Background(),
		tracer,
		OnClose(func() { closeCount++ }),
	)

	require.NotNil(scope)

	scope.Event(ClientSend)
	assert.Len(recorded, 1)

	scope.Close()
	assert.Equal(1, closeCount)

	// idempotent
	scope.Close()
	assert.Equal(1, closeCount)

	// annotations after close are dropped
	scope.Event(ClientReceive)
	scope.Tag(TagServiceName, "ignored")
	assert.Len(recorded, 1)
}
