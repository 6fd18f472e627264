// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"context"
	"strings"
)

// Executor is the unit of query execution this package decorates.  An Executor
// runs exactly one logical query against its engine.
type Executor interface {
	// Execute runs the query.  The supplied context carries tracing state and
	// cancellation.  This package never imposes deadlines of its own; the
	// context is passed through to the wrapped execution untouched except for
	// tracing values.
	Execute(ctx context.Context) (interface{}, error)
}

// ExecutorFunc is a function type that implements Executor.
type ExecutorFunc func(context.Context) (interface{}, error)

func (f ExecutorFunc) Execute(ctx context.Context) (interface{}, error) {
	return f(ctx)
}

// Unwrapper is implemented by Executor decorators that expose the executor
// they wrap.  SpanRecorder implements this interface.
type Unwrapper interface {
	Unwrap() Executor
}

// Root follows the chain of Unwrappers to the innermost executor.  An executor
// that does not implement Unwrapper, or whose Unwrap returns nil, is its own
// root.
func Root(e Executor) Executor {
	for {
		u, ok := e.(Unwrapper)
		if !ok {
			return e
		}

		inner := u.Unwrap()
		if inner == nil {
			return e
		}

		e = inner
	}
}

// QueryTexter is implemented by executors that can expose the raw text of the
// query they run.  This is a capability check, not a requirement: executors
// without query text are traced normally, just without the text annotation.
type QueryTexter interface {
	QueryText() string
}

// QueryText returns the raw query text from the root of the given decorator
// chain, when the root exposes it.
func QueryText(e Executor) (string, bool) {
	if qt, ok := Root(e).(QueryTexter); ok {
		return qt.QueryText(), true
	}

	return "", false
}

// QueryKind classifies a query for span naming.  Integrations are free to use
// values beyond the predeclared kinds.
type QueryKind string

const (
	QuerySelect QueryKind = "select"
	QueryInsert QueryKind = "insert"
	QueryUpdate QueryKind = "update"
	QueryDelete QueryKind = "delete"
	QueryBatch  QueryKind = "batch"
	QueryOther  QueryKind = "other"
)

// Operation derives the RPC operation name for this kind: lowercased, with
// interior whitespace collapsed to underscores.  An empty kind yields the
// operation name of QueryOther.
func (k QueryKind) Operation() string {
	s := strings.TrimSpace(string(k))
	if len(s) == 0 {
		return string(QueryOther)
	}

	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}
