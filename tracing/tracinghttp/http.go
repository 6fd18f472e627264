// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package tracinghttp connects the tracing package to HTTP ingress.  Inbound
requests carrying B3-style headers join the caller's trace, so spans recorded
while the request is handled, such as query execution spans, become children
of the caller's span.
*/
package tracinghttp

import (
	"context"
	"net/http"
	"strconv"

	"github.com/justinas/alice"
	"github.com/xmidt-org/querytrace/tracing"
)

// B3-style propagation headers.  Identifiers are rendered as 16-digit
// hexadecimal; 128-bit trace identifiers from other systems are ignored.
const (
	TraceIDHeader  = "X-B3-TraceId"
	SpanIDHeader   = "X-B3-SpanId"
	ParentIDHeader = "X-B3-ParentSpanId"
	SampledHeader  = "X-B3-Sampled"
)

func parseHex(s string) (uint64, bool) {
	v, err := strconv.ParseUint(s, 16, 64)
	return v, err == nil && v != 0
}

// ParseID extracts a span identifier from the given headers.  The trace and
// span headers must both carry nonzero identifiers; the parent and sampled
// headers are optional.
func ParseID(h http.Header) (tracing.ID, bool) {
	trace, ok := parseHex(h.Get(TraceIDHeader))
	if !ok {
		return tracing.ID{}, false
	}

	span, ok := parseHex(h.Get(SpanIDHeader))
	if !ok {
		return tracing.ID{}, false
	}

	id := tracing.ID{Trace: trace, Span: span}
	if parent, ok := parseHex(h.Get(ParentIDHeader)); ok {
		id.Parent = parent
	}

	switch h.Get(SampledHeader) {
	case "1", "true":
		id.Decision = tracing.Sampled
	case "0", "false":
		id.Decision = tracing.NotSampled
	}

	return id, true
}

// SetHeaders writes the given identifier to h, suitable for outbound requests
// that should propagate the current trace.
func SetHeaders(id tracing.ID, h http.Header) {
	h.Set(TraceIDHeader, id.String())
	h.Set(SpanIDHeader, id.SpanString())

	if !id.Root() {
		h.Set(ParentIDHeader, id.ParentString())
	}

	if id.Decision.Resolved() {
		if id.Decision.Accepted() {
			h.Set(SampledHeader, "1")
		} else {
			h.Set(SampledHeader, "0")
		}
	}
}

// Extract is a context function that adopts any inbound identifier from the
// request headers, so spans recorded while handling the request join the
// caller's trace.
func Extract(ctx context.Context, request *http.Request) context.Context {
	if id, ok := ParseID(request.Header); ok {
		ctx = tracing.WithID(ctx, id)
	}

	return ctx
}

// Populate returns an Alice-style constructor that installs t as the active
// tracer for each request, adopts any inbound identifier, and then applies
// the given context functions.  A nil tracer contributes nothing, but the
// context functions are still applied.
func Populate(t tracing.Tracer, rf ...func(context.Context, *http.Request) context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			if t != nil {
				ctx = tracing.WithTracer(ctx, t)
				ctx = Extract(ctx, request)
			}

			for _, f := range rf {
				ctx = f(ctx, request)
			}

			next.ServeHTTP(response, request.WithContext(ctx))
		})
	}
}

// NewChain constructs an Alice constructor chain from a tracer and zero or
// more application-layer context functions.
func NewChain(t tracing.Tracer, rf ...func(context.Context, *http.Request) context.Context) alice.Chain {
	return alice.New(
		Populate(t, rf...),
	)
}
