// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracingtest

import (
	"sync/atomic"

	"github.com/xmidt-org/querytrace/tracing"
)

// Tracer is a deterministic tracing.Tracer for tests: identifiers are
// sequential starting at one, SampleTrace always returns Decision, and every
// annotation is captured in the embedded Reporter.  The zero value is ready
// to use and defers every sampling decision.
type Tracer struct {
	Reporter

	// Decision is returned by SampleTrace for every trace.
	Decision tracing.Decision

	counter uint64
}

var _ tracing.Tracer = (*Tracer)(nil)

func (t *Tracer) NextID() tracing.ID {
	v := atomic.AddUint64(&t.counter, 1)
	return tracing.ID{Trace: v, Span: v}
}

func (t *Tracer) SampleTrace(tracing.ID) tracing.Decision {
	return t.Decision
}

func (t *Tracer) Record(a tracing.Annotation) {
	t.Report(a)
}
