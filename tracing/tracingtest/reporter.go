// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracingtest

import (
	"sync"

	"github.com/xmidt-org/querytrace/tracing"
)

// Reporter is a tracing.Reporter that captures annotations for test
// assertions.  The zero value is ready to use, and all methods are safe
// for concurrent use.
type Reporter struct {
	lock        sync.Mutex
	annotations []tracing.Annotation
}

var _ tracing.Reporter = (*Reporter)(nil)

func (r *Reporter) Report(a tracing.Annotation) {
	r.lock.Lock()
	r.annotations = append(r.annotations, a)
	r.lock.Unlock()
}

// Len returns the number of annotations captured so far.
func (r *Reporter) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.annotations)
}

// Annotations returns a copy of the captured annotations, in emission order.
func (r *Reporter) Annotations() []tracing.Annotation {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]tracing.Annotation{}, r.annotations...)
}

// Filter returns the captured annotations of the given kind, in emission order.
func (r *Reporter) Filter(k tracing.Kind) (matched []tracing.Annotation) {
	for _, a := range r.Annotations() {
		if a.Kind == k {
			matched = append(matched, a)
		}
	}

	return
}

// Find returns the first captured annotation with the given kind and key.
func (r *Reporter) Find(k tracing.Kind, key string) (tracing.Annotation, bool) {
	for _, a := range r.Annotations() {
		if a.Kind == k && a.Key == key {
			return a, true
		}
	}

	return tracing.Annotation{}, false
}

// Reset discards all captured annotations.
func (r *Reporter) Reset() {
	r.lock.Lock()
	r.annotations = nil
	r.lock.Unlock()
}
