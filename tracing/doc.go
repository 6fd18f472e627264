// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package tracing provides the span model for query execution tracing: trace
identifiers, sampling decisions, annotations, and the context plumbing that
carries them through a call.  The key types are Tracer, which mints identifiers
and accepts annotations for reporting, and Scope, the per-call handle returned
by Start that guarantees balanced push and release of tracing state.
*/
package tracing
