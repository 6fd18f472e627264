// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"github.com/go-kit/log"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Reporter is the sink for annotations.  This package has no opinion about
// transport or storage: a Reporter may write logs, feed a collector client,
// or drop data entirely.  Implementations must be safe for concurrent use.
type Reporter interface {
	Report(Annotation)
}

// ReporterFunc is a function type that implements Reporter.
type ReporterFunc func(Annotation)

func (f ReporterFunc) Report(a Annotation) {
	f(a)
}

// Discard returns a Reporter that drops every annotation.
func Discard() Reporter {
	return ReporterFunc(func(Annotation) {})
}

// NewLogReporter returns a Reporter that writes each annotation to the given
// zap logger at debug level.  If logger is nil, sallust.Default() is used.
func NewLogReporter(logger *zap.Logger) Reporter {
	if logger == nil {
		logger = sallust.Default()
	}

	return ReporterFunc(func(a Annotation) {
		logger.Debug("span annotation",
			zap.String("traceId", a.ID.String()),
			zap.String("spanId", a.ID.SpanString()),
			zap.Stringer("kind", a.Kind),
			zap.String("key", a.Key),
			zap.String("value", a.Value),
			zap.ByteString("payload", a.Bytes),
			zap.String("host", a.Host),
			zap.String("service", a.Service),
			zap.Time("ts", a.Time),
		)
	})
}

// NewKitLogReporter returns a Reporter that emits each annotation as logfmt
// keyvals on the given go-kit logger.  Applications configured with zap can
// supply the logger via the adapter package.  If logger is nil, the go-kit
// nop logger is used.
func NewKitLogReporter(logger log.Logger) Reporter {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return ReporterFunc(func(a Annotation) {
		logger.Log(
			"traceId", a.ID.String(),
			"spanId", a.ID.SpanString(),
			"kind", a.Kind.String(),
			"key", a.Key,
			"value", a.Value,
			"host", a.Host,
			"service", a.Service,
			"ts", a.Time,
		)
	})
}
