// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"fmt"
	"strings"
	"time"

	"github.com/xmidt-org/querytrace/tracing"
)

// Sampling policy names recognized in configuration.
const (
	AlwaysPolicy        = "always"
	NeverPolicy         = "never"
	ProbabilisticPolicy = "probabilistic"
)

// SamplerOptions configures the sampling policy applied to new traces.
type SamplerOptions struct {
	// Policy is one of AlwaysPolicy, NeverPolicy, or ProbabilisticPolicy.
	// An empty policy selects NeverPolicy.
	Policy string `json:"policy"`

	// Rate is the fraction of traces selected by ProbabilisticPolicy.  It is
	// ignored by the other policies.
	Rate float64 `json:"rate"`
}

func (so SamplerOptions) sampler() (tracing.Sampler, error) {
	switch strings.ToLower(so.Policy) {
	case "", NeverPolicy:
		return tracing.Never(), nil
	case AlwaysPolicy:
		return tracing.Always(), nil
	case ProbabilisticPolicy:
		return tracing.Probabilistic(so.Rate), nil
	default:
		return nil, fmt.Errorf("unrecognized sampling policy: %s", so.Policy)
	}
}

// QueueOptions configures the queued reporter that decouples annotation
// delivery from query execution.
type QueueOptions struct {
	// Size is the annotation buffer capacity.  A size of zero (the default)
	// disables queueing, and annotations are delivered synchronously.
	Size int `json:"size"`

	// DrainTimeout is how long shutdown waits for buffered annotations to
	// flush.  If unset, tracing.DefaultDrainTimeout is used.
	DrainTimeout time.Duration `json:"drainTimeout"`
}

// Options holds the configuration for a tracing executor factory.  A nil
// *Options is valid and behaves as a zero value: the default service name,
// no tag annotation, the never sampling policy, and no annotation queue.
type Options struct {
	// ServiceName is the logical service recorded on spans produced by the
	// factory.  If empty, DefaultServiceName is used.
	ServiceName string `json:"serviceName"`

	// AnnotateQuery enables the client_host, service_name, and trace_id tags
	// on recorded spans.
	AnnotateQuery bool `json:"annotateQuery"`

	// Sampler configures the sampling policy.
	Sampler SamplerOptions `json:"sampler"`

	// Queue configures the annotation queue.
	Queue QueueOptions `json:"queue"`
}

func (o *Options) serviceName() string {
	if o != nil && len(o.ServiceName) > 0 {
		return o.ServiceName
	}

	return DefaultServiceName
}

func (o *Options) annotateQuery() bool {
	return o != nil && o.AnnotateQuery
}

func (o *Options) sampler() (tracing.Sampler, error) {
	if o == nil {
		return tracing.Never(), nil
	}

	return o.Sampler.sampler()
}

func (o *Options) queueSize() int {
	if o != nil && o.Queue.Size > 0 {
		return o.Queue.Size
	}

	return 0
}

func (o *Options) drainTimeout() time.Duration {
	if o != nil && o.Queue.DrainTimeout > 0 {
		return o.Queue.DrainTimeout
	}

	return tracing.DefaultDrainTimeout
}
