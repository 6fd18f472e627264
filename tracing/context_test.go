// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTracer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expected = New()
		ctx      = WithTracer(context.Background(), expected)
	)

	actual, ok := GetTracer(ctx)
	require.True(ok)
	assert.Equal(expected, actual)
}

func TestGetTracerMissing(t *testing.T) {
	assert := assert.New(t)

	actual, ok := GetTracer(context.Background())
	assert.False(ok)
	assert.Nil(actual)
}

func TestWithID(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expected = ID{Trace: 11, Span: 22, Parent: 11, Decision: Sampled}
		ctx      = WithID(context.Background(), expected)
	)

	actual, ok := GetID(ctx)
	require.True(ok)
	assert.Equal(expected, actual)
}

func TestGetIDMissing(t *testing.T) {
	assert := assert.New(t)

	actual, ok := GetID(context.Background())
	assert.False(ok)
	assert.True(actual.IsZero())
}
