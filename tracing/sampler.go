// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

// probabilisticScale is the granularity of Probabilistic rates.  Rates are
// effectively truncated to 1/probabilisticScale increments.
const probabilisticScale = 10000

// Sampler is a sampling policy for new traces.  Implementations must be safe
// for concurrent use.
type Sampler interface {
	// SampleTrace decides whether a trace should be reported.  The decision is
	// requested at most once per trace, keyed on the trace's identifier, and
	// may be Undecided when the policy defers to someone else.
	SampleTrace(ID) Decision
}

// SamplerFunc is a function type that implements Sampler.
type SamplerFunc func(ID) Decision

func (f SamplerFunc) SampleTrace(id ID) Decision {
	return f(id)
}

// Always returns a Sampler that selects every trace.
func Always() Sampler {
	return SamplerFunc(func(ID) Decision {
		return Sampled
	})
}

// Never returns a Sampler that rejects every trace.
func Never() Sampler {
	return SamplerFunc(func(ID) Decision {
		return NotSampled
	})
}

// Probabilistic returns a Sampler that selects approximately the given fraction
// of traces.  The decision is a pure function of the trace identifier, so
// concurrent invocations for the same identifier always agree.  Rates at or
// below zero reject everything, and rates at or above one select everything.
func Probabilistic(rate float64) Sampler {
	switch {
	case rate <= 0.0:
		return Never()
	case rate >= 1.0:
		return Always()
	}

	boundary := uint64(rate * probabilisticScale)
	return SamplerFunc(func(id ID) Decision {
		if id.Trace%probabilisticScale < boundary {
			return Sampled
		}

		return NotSampled
	})
}
