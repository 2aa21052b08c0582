package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
)

// -- Test Helper Functions --

// resetLogger clears the package singletons so each test initializes from
// scratch.
func resetLogger() {
	globalLogger.Store(nil)
	once = sync.Once{}
}

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "airnet-test",
		Colors: config.ColorConfig{
			Debug: "cyan",
			Info:  "green",
			Warn:  "yellow",
			Error: "red",
		},
	}
}

// -- Test Cases --

func TestGetLoggerFallback(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	logger := GetLogger()
	require.NotNil(t, logger, "GetLogger must never return nil before initialization")
}

func TestInitializeLogger(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	sink := &zaptest.Buffer{}
	initializeLogger(testLoggerConfig(), sink)

	logger := GetLogger()
	require.NotNil(t, logger)

	logger.Info("hello from the route graph")
	require.NoError(t, logger.Sync())

	out := sink.String()
	assert.Contains(t, out, "hello from the route graph")
	assert.Contains(t, out, "airnet-test", "service name should appear in console output")
	assert.Contains(t, out, colorGreen, "info lines should carry the configured color")
}

func TestInitializeLoggerOnce(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	first := &zaptest.Buffer{}
	second := &zaptest.Buffer{}

	initializeLogger(testLoggerConfig(), first)
	before := GetLogger()

	initializeLogger(testLoggerConfig(), second)
	after := GetLogger()

	assert.Same(t, before, after, "re-initialization must not replace the logger")

	after.Info("only the first sink sees this")
	require.NoError(t, after.Sync())
	assert.Contains(t, first.String(), "only the first sink sees this")
	assert.Empty(t, second.String())
}

func TestInitializeLoggerBadLevel(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	cfg := testLoggerConfig()
	cfg.Level = "extremely-verbose"

	sink := &zaptest.Buffer{}
	initializeLogger(cfg, sink)
	logger := GetLogger()

	// Falls back to info: debug lines are suppressed, info lines pass.
	logger.Debug("should be filtered")
	logger.Info("should appear")
	require.NoError(t, logger.Sync())

	out := sink.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}

func TestColorizedLevelEncoder(t *testing.T) {
	enc := newColorizedLevelEncoder(config.ColorConfig{Info: "green", Error: "red"})

	t.Run("configured level gets wrapped in color codes", func(t *testing.T) {
		var arr stringArrayEncoder
		enc(zapcore.InfoLevel, &arr)
		require.Len(t, arr.values, 1)
		assert.Equal(t, colorGreen+"INFO"+colorReset, arr.values[0])
	})

	t.Run("unconfigured level stays plain", func(t *testing.T) {
		var arr stringArrayEncoder
		enc(zapcore.WarnLevel, &arr)
		require.Len(t, arr.values, 1)
		assert.Equal(t, "WARN", arr.values[0])
	})
}

// stringArrayEncoder captures appended strings for encoder assertions.
type stringArrayEncoder struct {
	zapcore.PrimitiveArrayEncoder
	values []string
}

func (s *stringArrayEncoder) AppendString(v string) { s.values = append(s.values, v) }
