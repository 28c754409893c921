package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger() (*DefaultLogger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewLogger(&stdout, &stderr, false), &stdout, &stderr
}

func TestDefaultLoggerRoutesByLevel(t *testing.T) {
	logger, stdout, stderr := newBufferedLogger()
	logger.SetLevel(DebugLevel)

	logger.Debug("reshaping", Fields{"samples": 3})
	logger.Warn("skipped rows", Fields{"skipped": 2})
	logger.Error(errors.New("boom"), "import failed")

	assert.Contains(t, stdout.String(), "[DEBUG] reshaping samples=3")
	assert.Contains(t, stderr.String(), "[WARN] skipped rows skipped=2")
	assert.Contains(t, stderr.String(), "[ERROR] import failed: boom")
}

func TestDefaultLoggerFiltersBelowLevel(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "shown")
}

func TestWithFieldsSharesLevelAndSortsFields(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()
	child := logger.WithFields(Fields{"spd": "lamp", "component": "import"})

	logger.SetLevel(WarnLevel)
	child.Info("dropped")
	logger.SetLevel(InfoLevel)
	child.Info("kept", Fields{"rows": 421})

	out := stdout.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "[INFO] kept component=import rows=421 spd=lamp")
}

func TestWithContextPicksUpFields(t *testing.T) {
	logger, stdout, _ := newBufferedLogger()

	ctx := ContextWithFields(context.Background(), Fields{"run_id": "abc"})
	ctx = ContextWithFields(ctx, Fields{"file": "lamp.csv"})
	logger.WithContext(ctx).Info("analyzed")

	assert.Contains(t, stdout.String(), "file=lamp.csv run_id=abc")
}

func TestFatalUsesExitHook(t *testing.T) {
	logger, _, stderr := newBufferedLogger()
	code := -1
	logger.exit = func(c int) { code = c }

	logger.Fatal(errors.New("no reference data"), "startup failed")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[FATAL] startup failed: no reference data")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestSetGlobalLoggerNilFallsBackToNoOp(t *testing.T) {
	previous := GetGlobalLogger()
	defer SetGlobalLogger(previous)

	SetGlobalLogger(nil)
	assert.IsType(t, &NoOpLogger{}, GetGlobalLogger())

	custom, _, _ := newBufferedLogger()
	assert.Same(t, custom, OrGlobal(custom))
}
