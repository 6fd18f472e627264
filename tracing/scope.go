// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"sync/atomic"
	"time"
)

// StartOption represents a configuration option for a single Start call.
type StartOption func(*Scope)

// Now sets the time source used to stamp annotations recorded through the
// scope.  If now is nil, this option does nothing.
func Now(now func() time.Time) StartOption {
	return func(s *Scope) {
		if now != nil {
			s.now = now
		}
	}
}

// OnClose registers a callback invoked exactly once, when the scope is closed.
// Useful for accounting, such as gauges that track open scopes.
func OnClose(f func()) StartOption {
	return func(s *Scope) {
		if f != nil {
			s.onClose = f
		}
	}
}

// Start pushes tracing state for a single traced call onto ctx.
//
// The identifier for the call is derived before anything is pushed: when ctx
// already carries an identifier, the new identifier is a child of it, sharing
// its trace and any resolved sampling decision.  Otherwise t.NextID mints a
// fresh root.  An unresolved decision is then resolved through t.SampleTrace
// and attached to the identifier, which never changes afterward.
//
// The returned context carries t and the new identifier.  The returned Scope
// must be closed on every exit path; the conventional usage is:
//
//	ctx, scope := tracing.Start(ctx, tracer)
//	defer scope.Close()
//
// A nil tracer is replaced with Nop().
func Start(ctx context.Context, t Tracer, options ...StartOption) (context.Context, *Scope) {
	if t == nil {
		t = Nop()
	}

	s := &Scope{
		tracer: t,
		now:    time.Now,
	}

	for _, o := range options {
		o(s)
	}

	if ambient, ok := GetID(ctx); ok {
		s.id = ambient.Child(t.NextID())
	} else {
		s.id = t.NextID()
	}

	if !s.id.Decision.Resolved() {
		s.id = s.id.WithDecision(t.SampleTrace(s.id))
	}

	ctx = WithTracer(ctx, t)
	ctx = WithID(ctx, s.id)
	return ctx, s
}

// Scope is the handle for one traced call.  It records annotations on behalf
// of its identifier and guarantees balanced push/release semantics: a Scope
// closes at most once, and annotations recorded after Close are dropped.
type Scope struct {
	tracer  Tracer
	id      ID
	now     func() time.Time
	onClose func()

	state uint32
}

// ID returns the identifier for the traced call, including its resolved
// sampling decision.
func (s *Scope) ID() ID {
	return s.id
}

// Tracer returns the tracer this scope records through.
func (s *Scope) Tracer() Tracer {
	return s.tracer
}

func (s *Scope) record(a Annotation) {
	if atomic.LoadUint32(&s.state) == 0 {
		a.ID = s.id
		s.tracer.Record(a)
	}
}

// Event records a timestamped event annotation, such as ClientSend or ClientReceive.
func (s *Scope) Event(key string) {
	s.record(Annotation{Kind: KindEvent, Key: key, Time: s.now()})
}

// Tag records a string key/value annotation.
func (s *Scope) Tag(key, value string) {
	s.record(Annotation{Kind: KindTag, Key: key, Value: value, Time: s.now()})
}

// Binary records an opaque payload annotation, such as raw query text.
func (s *Scope) Binary(key string, value []byte) {
	s.record(Annotation{Kind: KindBinary, Key: key, Bytes: value, Time: s.now()})
}

// ClientAddress records the resolved client network address for the traced call.
func (s *Scope) ClientAddress(host string) {
	s.record(Annotation{Kind: KindClientAddress, Host: host, Time: s.now()})
}

// Name records the logical RPC name for the traced call.
func (s *Scope) Name(service, operation string) {
	s.record(Annotation{Kind: KindName, Service: service, Value: operation, Time: s.now()})
}

// Close releases this scope.  It is idempotent: only the first call has any
// effect, and any OnClose callback runs exactly once.
func (s *Scope) Close() {
	if atomic.CompareAndSwapUint32(&s.state, 0, 1) {
		if s.onClose != nil {
			s.onClose()
		}
	}
}
