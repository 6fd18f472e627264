// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import "fmt"

// Decision is the tri-state outcome of a sampling policy.  The zero value means
// no policy has decided yet, which lets collaborators distinguish "not sampled"
// from "never asked".
type Decision int

const (
	// Undecided indicates that no sampling decision has been made for a trace.
	Undecided Decision = iota

	// Sampled indicates that a trace was selected for reporting.
	Sampled

	// NotSampled indicates that a trace was rejected by policy.
	NotSampled
)

// Resolved tests whether a sampling policy has produced a decision.
func (d Decision) Resolved() bool {
	return d != Undecided
}

// Accepted tests whether this decision selects the trace for reporting.
func (d Decision) Accepted() bool {
	return d == Sampled
}

func (d Decision) String() string {
	switch d {
	case Sampled:
		return "sampled"
	case NotSampled:
		return "notSampled"
	default:
		return "undecided"
	}
}

// ID identifies a single span within a single trace.  An ID is immutable once
// created: derivation methods return modified copies.  The zero value carries
// no trace information.
//
// Trace is shared by every span recorded on behalf of one logical operation.
// Span identifies this execution, while Parent holds the span identifier of
// the caller, or zero for a root span.
type ID struct {
	Trace  uint64
	Span   uint64
	Parent uint64

	// Decision is the sampling decision attached to this identifier.  It is
	// resolved at most once, when the identifier is first pushed onto a
	// context, and is inherited unchanged by child identifiers.
	Decision Decision
}

// IsZero tests whether this identifier carries no trace information.
func (id ID) IsZero() bool {
	return id.Trace == 0 && id.Span == 0
}

// Root tests whether this span has no parent.
func (id ID) Root() bool {
	return id.Parent == 0
}

// String returns the canonical 16-digit hexadecimal rendering of the trace identifier.
func (id ID) String() string {
	return fmt.Sprintf("%016x", id.Trace)
}

// SpanString returns the canonical 16-digit hexadecimal rendering of the span identifier.
func (id ID) SpanString() string {
	return fmt.Sprintf("%016x", id.Span)
}

// ParentString returns the canonical 16-digit hexadecimal rendering of the parent
// span identifier.
func (id ID) ParentString() string {
	return fmt.Sprintf("%016x", id.Parent)
}

// Child derives the identifier for a span caused by this one.  The child shares
// this identifier's trace and sampling decision, its parent is this identifier's
// span, and its span identifier is taken from fresh.
func (id ID) Child(fresh ID) ID {
	return ID{
		Trace:    id.Trace,
		Span:     fresh.Span,
		Parent:   id.Span,
		Decision: id.Decision,
	}
}

// WithDecision returns a copy of this identifier carrying the given sampling decision.
func (id ID) WithDecision(d Decision) ID {
	id.Decision = d
	return id
}
