package testutil

import (
	"os"

	"github.com/SaiNageswarS/go-ioc-boot/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// WithEnv sets key=value while fn runs and intercepts logger.Fatal, so code
// under test that would exit the process reports to the MockLogger instead.
// The previous value (or its absence) is restored afterwards.
func WithEnv(key, value string, fn func(logger *MockLogger)) {
	originalEnv, wasSet := os.LookupEnv(key)
	os.Setenv(key, value)
	defer func() {
		if wasSet {
			os.Setenv(key, originalEnv)
		} else {
			os.Unsetenv(key)
		}
	}()

	WithFatalCapture(fn)
}

// WithFatalCapture intercepts logger.Fatal while fn runs.
func WithFatalCapture(fn func(logger *MockLogger)) {
	mockLogger := &MockLogger{}
	originalFatal := logger.Fatal
	logger.Fatal = mockLogger.Fatal
	defer func() {
		logger.Fatal = originalFatal
	}()

	fn(mockLogger)
}

// ObserveLogs replaces the global logger with one recording entries at level
// and above. Loggers derived with logger.Named after the call record too.
// Call restore when done.
func ObserveLogs(level zapcore.Level) (logs *observer.ObservedLogs, restore func()) {
	core, logs := observer.New(level)
	original := logger.Log
	logger.Log = zap.New(core)
	return logs, func() { logger.Log = original }
}

// MockLogger is a test double for logger.Fatal.
type MockLogger struct {
	IsFatalCalled bool
	FatalMsg      string
	// FatalCount counts calls; FatalMsg keeps the last message.
	FatalCount int
}

func (m *MockLogger) Fatal(msg string, fields ...zap.Field) {
	m.IsFatalCalled = true
	m.FatalMsg = msg
	m.FatalCount++
}
