package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLog(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		core, logs = observer.New(zapcore.InfoLevel)
		logger     = Logger{zap.New(core)}
	)

	assert.NoError(logger.Log("msg", "query traced", "count", 2))

	require.Equal(1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal("query traced", fields["msg"])
	assert.Equal(int64(2), fields["count"])
}

func TestLogOddKeyvals(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		core, logs = observer.New(zapcore.InfoLevel)
		logger     = Logger{zap.New(core)}
	)

	assert.NoError(logger.Log("orphan"))

	require.Equal(1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal("(MISSING)", fields["orphan"])
}

func TestLogNonStringKey(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		core, logs = observer.New(zapcore.InfoLevel)
		logger     = Logger{zap.New(core)}
	)

	assert.NoError(logger.Log(35, "unexpected"))

	require.Equal(1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal("unexpected", fields["35"])
}
