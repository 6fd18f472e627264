// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import "time"

// Kind classifies an Annotation.
type Kind int

const (
	// KindEvent is a timestamped marker on the span timeline, such as ClientSend.
	KindEvent Kind = iota

	// KindBinary attaches an opaque payload to the span, such as raw query text.
	KindBinary

	// KindTag attaches a string key/value pair to the span.
	KindTag

	// KindClientAddress records the resolved network address of the client side
	// of the traced call.
	KindClientAddress

	// KindName records the logical RPC name of the traced call.
	KindName
)

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindBinary:
		return "binary"
	case KindTag:
		return "tag"
	case KindClientAddress:
		return "clientAddress"
	case KindName:
		return "name"
	default:
		return "unknown"
	}
}

// Event annotation values, in the classic client/server tracing vocabulary.
const (
	// ClientSend marks the instant immediately before the traced call is dispatched.
	ClientSend = "cs"

	// ClientReceive marks the instant immediately after the traced call completes,
	// whether it succeeded or failed.
	ClientReceive = "cr"
)

// Well-known tag and binary annotation keys.
const (
	// TagClientHost carries the resolved client address as a string tag.
	TagClientHost = "client_host"

	// TagServiceName carries the configured logical service name.
	TagServiceName = "service_name"

	// TagTraceID carries the hexadecimal trace identifier.  It is only emitted
	// for spans whose sampling decision is Sampled.
	TagTraceID = "trace_id"

	// BinaryQuery is the key under which raw query text is attached.
	BinaryQuery = "query"
)

// Annotation is a single record emitted on behalf of a span.  Annotations are
// write-once: a value handed to a Tracer is owned by the reporting pipeline
// and must not be modified afterward.
//
// Only the fields relevant to the Kind are populated: Key and Time for events,
// Key and Bytes for binary annotations, Key and Value for tags, Host for
// client addresses, and Service plus Value (the operation) for names.
type Annotation struct {
	ID      ID
	Kind    Kind
	Key     string
	Value   string
	Bytes   []byte
	Host    string
	Service string
	Time    time.Time
}
