// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package querytrace decorates database query execution with distributed tracing.

An Interface created by New wraps the executor factory of an arbitrary query
engine.  Executors it creates are wrapped in SpanRecorders, which enclose each
execution in a span: a trace identifier is minted or inherited from the ambient
context, a sampling decision is resolved once per trace, the client address and
query text are annotated when available, and send/receive events tightly
bracket the underlying call.  Results and errors from the wrapped executor pass
through unchanged.

The tracing subpackage defines the span model and the collector-facing Tracer
capability; this package owns the decoration and factory lifecycle.
*/
package querytrace
