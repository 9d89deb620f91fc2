// internal/infrastructure/logger/logger_test.go
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, DebugLevel)

	log.Debug("Cache miss", map[string]interface{}{
		"key": "fx_rate:USD:EUR",
	})

	entry := decodeLine(t, &buf)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "Cache miss", entry["message"])
	assert.Equal(t, "fx_rate:USD:EUR", entry["key"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "file")
	assert.Contains(t, entry, "line")

	// errors are rendered as their message
	buf.Reset()
	log.Error("Provider call failed", map[string]interface{}{"error": errors.New("connection refused")})
	entry = decodeLine(t, &buf)
	assert.Equal(t, "connection refused", entry["error"])

	// reserved keys cannot be overridden by fields
	buf.Reset()
	log.Info("Real message", map[string]interface{}{"message": "spoofed"})
	entry = decodeLine(t, &buf)
	assert.Equal(t, "Real message", entry["message"])
}

func TestJSONLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	warnLogger := NewJSONLogger(&buf, WarnLevel)

	warnLogger.Debug("Should not appear", nil)
	warnLogger.Info("Should not appear", nil)
	assert.Equal(t, "", buf.String())

	warnLogger.Warn("Warning message", nil)
	assert.Contains(t, buf.String(), "Warning message")

	buf.Reset()
	warnLogger.Error("Error message", nil)
	assert.Contains(t, buf.String(), "Error message")

	assert.True(t, warnLogger.Enabled(ErrorLevel))
	assert.False(t, warnLogger.Enabled(InfoLevel))

	// unknown levels fall back to INFO
	assert.True(t, NewJSONLogger(&buf, Level("LOUD")).Enabled(InfoLevel))
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	log.WithField("component", "rate_provider").Info("With field", nil)
	entry := decodeLine(t, &buf)
	assert.Equal(t, "rate_provider", entry["component"])

	buf.Reset()
	scoped := log.WithFields(map[string]interface{}{
		"request_id": "abc",
		"from":       "USD",
	})
	scoped.Info("With fields", map[string]interface{}{"from": "EUR"})
	entry = decodeLine(t, &buf)
	assert.Equal(t, "abc", entry["request_id"])
	assert.Equal(t, "EUR", entry["from"], "call fields win over context fields")

	// parent logger is not affected
	buf.Reset()
	log.Info("Plain", nil)
	entry = decodeLine(t, &buf)
	assert.NotContains(t, entry, "request_id")

	assert.Same(t, log, log.WithFields(nil))
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	code := 0
	orig := exit
	exit = func(c int) { code = c }
	defer func() { exit = orig }()

	NewJSONLogger(&buf, InfoLevel).Fatal("Cannot start", nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "FATAL")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" debug ")
	assert.NoError(t, err)
	assert.Equal(t, DebugLevel, level)

	level, err = ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, InfoLevel, level)
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefaultLogger()
	assert.NotNil(t, original)
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	GetDefaultLogger().Debug("via default", nil)
	assert.Contains(t, buf.String(), "via default")

	SetDefaultLogger(nil)
	assert.NotNil(t, GetDefaultLogger())
}
