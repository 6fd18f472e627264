// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Tracer is the capability set required to trace calls: minting identifiers,
// resolving sampling decisions, and accepting annotations for reporting.
// Tracers are typically shared by many goroutines, and all methods must be
// safe for concurrent use.
type Tracer interface {
	// NextID mints a fresh root identifier with an unresolved sampling decision.
	NextID() ID

	// SampleTrace applies this tracer's sampling policy to the given identifier.
	SampleTrace(ID) Decision

	// Record accepts a single annotation.  Ownership of the annotation passes
	// to the tracer.
	Record(Annotation)
}

// Option represents a configuration option for the Tracer returned by New.
type Option func(*tracer)

// WithSampler sets the sampling policy.  If s is nil, Never() is used.
func WithSampler(s Sampler) Option {
	return func(t *tracer) {
		if s == nil {
			t.sampler = Never()
		} else {
			t.sampler = s
		}
	}
}

// WithReporter sets the annotation sink.  If r is nil, Discard() is used.
func WithReporter(r Reporter) Option {
	return func(t *tracer) {
		if r == nil {
			t.reporter = Discard()
		} else {
			t.reporter = r
		}
	}
}

// WithIDGenerator sets the source of identifier bits, which is useful for
// deterministic tests.  If gen is nil, this option does nothing.
func WithIDGenerator(gen func() uint64) Option {
	return func(t *tracer) {
		if gen != nil {
			t.generate = gen
		}
	}
}

// New constructs a Tracer with the given options.  The returned tracer is
// stateless apart from its sampler and reporter: it never filters annotations
// on its own, leaving sampling enforcement to the recording layer and to sinks.
func New(options ...Option) Tracer {
	t := &tracer{
		sampler:  Never(),
		reporter: Discard(),
		generate: RandomID,
	}

	for _, o := range options {
		o(t)
	}

	return t
}

type tracer struct {
	sampler  Sampler
	reporter Reporter
	generate func() uint64
}

func (t *tracer) NextID() ID {
	v := t.generate()
	return ID{Trace: v, Span: v}
}

func (t *tracer) SampleTrace(id ID) Decision {
	return t.sampler.SampleTrace(id)
}

func (t *tracer) Record(a Annotation) {
	t.reporter.Report(a)
}

// RandomID produces a nonzero, uniformly random 64-bit identifier.  Entropy
// comes from crypto/rand, falling back to math/rand if the platform source
// fails.
func RandomID() uint64 {
	var b [8]byte
	for {
		if _, err := cryptorand.Read(b[:]); err != nil {
			// nolint: gosec
			return rand.Uint64() | 1
		}

		if v := binary.BigEndian.Uint64(b[:]); v != 0 {
			return v
		}
	}
}

// Nop returns a Tracer that mints zero identifiers, defers every sampling
// decision, and drops every annotation.
func Nop() Tracer {
	return nopTracer{}
}

type nopTracer struct{}

func (nopTracer) NextID() ID              { return ID{} }
func (nopTracer) SampleTrace(ID) Decision { return Undecided }
func (nopTracer) Record(Annotation)       {}
