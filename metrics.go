// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
	themisXmetrics "github.com/xmidt-org/themis/xmetrics"
	"github.com/xmidt-org/webpa-common/v2/xmetrics"
	"go.uber.org/fx"

	"github.com/xmidt-org/querytrace/tracing"
)

// Names for our metrics
const (
	SpanStartCount        = "query_span_start_count"
	SpanFinishCount       = "query_span_finish_count"
	ActiveSpans           = "active_query_spans"
	SamplingDecisionCount = "query_sampling_decision_count"
	AddressFailureCount   = "client_address_resolution_failure_count"
	AnnotationDropCount   = "annotation_drop_count"
)

// labels
const (
	OperationLabel = "operation"
	OutcomeLabel   = "outcome"
	DecisionLabel  = "decision"
)

// outcomes
const (
	SuccessOutcome = "success"
	ErrorOutcome   = "error"
)

// help messages
const (
	spanStartHelpMsg        = "Count of query executions entering a trace span, by operation"
	spanFinishHelpMsg       = "Count of query executions leaving a trace span, by operation and outcome"
	activeSpansHelpMsg      = "Number of query spans currently open"
	samplingDecisionHelpMsg = "Count of sampling decisions resolved for query spans, by decision"
	addressFailureHelpMsg   = "Count of client address resolutions that failed and were recovered"
	annotationDropHelpMsg   = "Count of annotations dropped by the queued reporter"
)

// Metrics returns the Metrics relevant to this package targeting our older non uber/fx applications.
// To initialize the metrics, use NewMeasures().
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name:       SpanStartCount,
			Type:       xmetrics.CounterType,
			Help:       spanStartHelpMsg,
			LabelNames: []string{OperationLabel},
		},
		{
			Name:       SpanFinishCount,
			Type:       xmetrics.CounterType,
			Help:       spanFinishHelpMsg,
			LabelNames: []string{OperationLabel, OutcomeLabel},
		},
		{
			Name: ActiveSpans,
			Type: xmetrics.GaugeType,
			Help: activeSpansHelpMsg,
		},
		{
			Name:       SamplingDecisionCount,
			Type:       xmetrics.CounterType,
			Help:       samplingDecisionHelpMsg,
			LabelNames: []string{DecisionLabel},
		},
		{
			Name: AddressFailureCount,
			Type: xmetrics.CounterType,
			Help: addressFailureHelpMsg,
		},
		{
			Name: AnnotationDropCount,
			Type: xmetrics.CounterType,
			Help: annotationDropHelpMsg,
		},
	}
}

// ProvideMetrics provides the metrics relevant to this package as uber/fx options.
func ProvideMetrics() fx.Option {
	return fx.Provide(
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: SpanStartCount,
			Help: spanStartHelpMsg,
		}, OperationLabel),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: SpanFinishCount,
			Help: spanFinishHelpMsg,
		}, OperationLabel, OutcomeLabel),
		themisXmetrics.ProvideGauge(prometheus.GaugeOpts{
			Name: ActiveSpans,
			Help: activeSpansHelpMsg,
		}),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: SamplingDecisionCount,
			Help: samplingDecisionHelpMsg,
		}, DecisionLabel),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: AddressFailureCount,
			Help: addressFailureHelpMsg,
		}),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: AnnotationDropCount,
			Help: annotationDropHelpMsg,
		}),
	)
}

// Measures describes the defined metrics that will be used by clients
type Measures struct {
	SpanStartCount        metrics.Counter
	SpanFinishCount       metrics.Counter
	ActiveSpans           metrics.Gauge
	SamplingDecisionCount metrics.Counter
	AddressFailureCount   metrics.Counter
	AnnotationDropCount   metrics.Counter
}

// NewMeasures realizes desired metrics.  It's intended to be used alongside
// Metrics() for our older non uber/fx applications; an xmetrics.Registry is a
// provider.Provider and may be passed directly.
func NewMeasures(p provider.Provider) *Measures {
	return &Measures{
		SpanStartCount:        p.NewCounter(SpanStartCount),
		SpanFinishCount:       p.NewCounter(SpanFinishCount),
		ActiveSpans:           p.NewGauge(ActiveSpans),
		SamplingDecisionCount: p.NewCounter(SamplingDecisionCount),
		AddressFailureCount:   p.NewCounter(AddressFailureCount),
		AnnotationDropCount:   p.NewCounter(AnnotationDropCount),
	}
}

// MetricsIn is an uber/fx parameter struct carrying the metrics provided by
// ProvideMetrics.
type MetricsIn struct {
	fx.In

	SpanStartCount        metrics.Counter `name:"query_span_start_count"`
	SpanFinishCount       metrics.Counter `name:"query_span_finish_count"`
	ActiveSpans           metrics.Gauge   `name:"active_query_spans"`
	SamplingDecisionCount metrics.Counter `name:"query_sampling_decision_count"`
	AddressFailureCount   metrics.Counter `name:"client_address_resolution_failure_count"`
	AnnotationDropCount   metrics.Counter `name:"annotation_drop_count"`
}

// NewMeasuresIn builds the measures from an uber/fx parameter struct.
func NewMeasuresIn(in MetricsIn) *Measures {
	return &Measures{
		SpanStartCount:        in.SpanStartCount,
		SpanFinishCount:       in.SpanFinishCount,
		ActiveSpans:           in.ActiveSpans,
		SamplingDecisionCount: in.SamplingDecisionCount,
		AddressFailureCount:   in.AddressFailureCount,
		AnnotationDropCount:   in.AnnotationDropCount,
	}
}

// instrumentation helpers used by SpanRecorder; all tolerate a nil receiver so
// an uninstrumented recorder costs nothing.

func (m *Measures) spanStarted(operation string, d tracing.Decision) {
	if m == nil {
		return
	}

	m.SpanStartCount.With(OperationLabel, operation).Add(1.0)
	m.SamplingDecisionCount.With(DecisionLabel, d.String()).Add(1.0)
	m.ActiveSpans.Add(1.0)
}

func (m *Measures) spanFinished(operation string, err error) {
	if m == nil {
		return
	}

	outcome := SuccessOutcome
	if err != nil {
		outcome = ErrorOutcome
	}

	m.SpanFinishCount.With(OperationLabel, operation, OutcomeLabel, outcome).Add(1.0)
}

func (m *Measures) scopeClosed() {
	if m == nil {
		return
	}

	m.ActiveSpans.Add(-1.0)
}

func (m *Measures) addressFailure() {
	if m == nil {
		return
	}

	m.AddressFailureCount.Add(1.0)
}
