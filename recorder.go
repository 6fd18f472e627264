// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"

	"github.com/xmidt-org/querytrace/tracing"
)

// DefaultServiceName is the logical service name used when none is configured.
const DefaultServiceName = "querytrace"

var errNoAddresses = errors.New("hostname resolved to no addresses")

// SpanRecorder decorates an Executor so that each execution is enclosed in a
// trace span.  The zero value is not useful; at minimum Next must be set.
// Fields must not be modified once the recorder is in use.
//
// Each Execute pushes a scoped tracing context, resolves the sampling decision
// for the call, annotates the span, and brackets the wrapped execution with
// ClientSend and ClientReceive events.  The wrapped executor's result and
// error pass through unchanged, and the pushed context is released on every
// exit path, including panics.
type SpanRecorder struct {
	// Next is the wrapped executor.  Required.
	Next Executor

	// Tracer records spans for this recorder.  If nil, tracing.Nop() is used
	// and executions are effectively untraced.
	Tracer tracing.Tracer

	// Connection supplies client metadata for address annotations.  If nil,
	// spans carry no client address.
	Connection Connection

	// Kind classifies the query; its Operation() becomes the span's RPC
	// operation name.
	Kind QueryKind

	// ServiceName is the logical service recorded on spans.  If empty,
	// DefaultServiceName is used.
	ServiceName string

	// AnnotateQuery enables the client_host, service_name, and trace_id tags.
	// Event, RPC-name, and query-text annotations are recorded regardless.
	AnnotateQuery bool

	// Lookup resolves the client hostname to an address.  If nil,
	// net.DefaultResolver is used.
	Lookup Lookup

	// Measures instruments span recording.  May be nil.
	Measures *Measures

	// Now is the annotation time source.  If nil, time.Now is used.
	Now func() time.Time
}

var _ Executor = (*SpanRecorder)(nil)
var _ Unwrapper = (*SpanRecorder)(nil)

// Unwrap returns the wrapped executor.
func (sr *SpanRecorder) Unwrap() Executor {
	return sr.Next
}

func (sr *SpanRecorder) tracer() tracing.Tracer {
	if sr.Tracer != nil {
		return sr.Tracer
	}

	return tracing.Nop()
}

func (sr *SpanRecorder) serviceName() string {
	if len(sr.ServiceName) > 0 {
		return sr.ServiceName
	}

	return DefaultServiceName
}

func (sr *SpanRecorder) lookup() Lookup {
	if sr.Lookup != nil {
		return sr.Lookup
	}

	return net.DefaultResolver
}

func (sr *SpanRecorder) now() func() time.Time {
	if sr.Now != nil {
		return sr.Now
	}

	return time.Now
}

// clientAddress resolves the client address from the connection metadata.  A
// hostname that is already an address literal short-circuits the lookup.
func (sr *SpanRecorder) clientAddress(ctx context.Context) (string, error) {
	host, err := sr.Connection.ClientHostname()
	if err != nil {
		return "", err
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	addrs, err := sr.lookup().LookupIPAddr(ctx, host)
	if err != nil {
		return "", err
	}

	if len(addrs) == 0 {
		return "", errNoAddresses
	}

	return addrs[0].IP.String(), nil
}

// Execute traces one execution of the wrapped executor.
func (sr *SpanRecorder) Execute(ctx context.Context) (interface{}, error) {
	var (
		operation = sr.Kind.Operation()
		service   = sr.serviceName()
	)

	ctx, scope := tracing.Start(ctx, sr.tracer(),
		tracing.Now(sr.now()),
		tracing.OnClose(sr.Measures.scopeClosed),
	)
	defer scope.Close()

	sr.Measures.spanStarted(operation, scope.ID().Decision)

	if text, ok := QueryText(sr.Next); ok {
		scope.Binary(tracing.BinaryQuery, []byte(text))
	}

	if sr.AnnotateQuery {
		if sr.Connection != nil {
			if address, err := sr.clientAddress(ctx); err != nil {
				sr.Measures.addressFailure()
				sallust.Get(ctx).Debug("client address unavailable",
					zap.String("operation", operation),
					zap.Error(err),
				)
			} else {
				scope.ClientAddress(address)
				scope.Tag(tracing.TagClientHost, address)
			}
		}

		scope.Tag(tracing.TagServiceName, service)

		if scope.ID().Decision.Accepted() {
			scope.Tag(tracing.TagTraceID, scope.ID().String())
		}
	}

	scope.Name(service, operation)

	scope.Event(tracing.ClientSend)
	result, err := sr.execute(ctx, scope)
	sr.Measures.spanFinished(operation, err)
	return result, err
}

// execute invokes the wrapped executor with the ClientReceive event deferred,
// so receive is recorded on success, error, and panic paths alike, always
// after ClientSend and before the caller sees the outcome.
func (sr *SpanRecorder) execute(ctx context.Context, scope *tracing.Scope) (interface{}, error) {
	defer scope.Event(tracing.ClientReceive)
	return sr.Next.Execute(ctx)
}
