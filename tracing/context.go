// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import "context"

type contextKey uint32

const (
	tracerKey contextKey = iota
	idKey
)

// WithTracer associates a Tracer with the returned context, making it the
// active tracer for everything downstream of the context.
func WithTracer(parent context.Context, t Tracer) context.Context {
	return context.WithValue(parent, tracerKey, t)
}

// GetTracer retrieves the active Tracer from the context, if one is present.
func GetTracer(ctx context.Context) (Tracer, bool) {
	t, ok := ctx.Value(tracerKey).(Tracer)
	return t, ok
}

// WithID associates a span identifier with the returned context.  Spans started
// beneath this context become children of the given identifier.
func WithID(parent context.Context, id ID) context.Context {
	return context.WithValue(parent, idKey, id)
}

// GetID retrieves the ambient span identifier from the context, if one is present.
func GetID(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(idKey).(ID)
	return id, ok
}
