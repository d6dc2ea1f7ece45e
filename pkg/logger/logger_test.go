package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"twistory/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with warn level",
			cfg:     &config.LoggingConfig{Level: "warn"},
			wantErr: false,
		},
		{
			name:    "valid config with trace level",
			cfg:     &config.LoggingConfig{Level: "trace"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name: "config with file output",
			cfg: &config.LoggingConfig{
				Level: "info",
				File:  filepath.Join(t.TempDir(), "logs", "twistory.log"),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"trace", zerolog.TraceLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestLevelForVerbosity(t *testing.T) {
	assert.Equal(t, "warn", LevelForVerbosity(0))
	assert.Equal(t, "info", LevelForVerbosity(1))
	assert.Equal(t, "debug", LevelForVerbosity(2))
	assert.Equal(t, "trace", LevelForVerbosity(3))
	assert.Equal(t, "trace", LevelForVerbosity(7))
}

func TestVerbosityGatesConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&config.LoggingConfig{Level: LevelForVerbosity(0)}, &buf)
	require.NoError(t, err)

	log.Info("fetching tweets")
	log.Debug("iterating")
	assert.Empty(t, buf.String())

	log.Warn("rate limited")
	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "| rate limited")

	buf.Reset()
	log, err = NewWithWriter(&config.LoggingConfig{Level: LevelForVerbosity(1)}, &buf)
	require.NoError(t, err)
	log.Info("fetching tweets")
	log.Debug("iterating")
	assert.Contains(t, buf.String(), "fetching tweets")
	assert.NotContains(t, buf.String(), "iterating")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf)
	logger := &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}

	logger.WithFields(map[string]interface{}{
		"user":  "jschauma",
		"count": 200,
		"rts":   true,
	}).Info("page fetched")

	output := buf.String()
	if !strings.Contains(output, "page fetched") {
		t.Error("Message not found in output")
	}
	if !strings.Contains(output, `"user":"jschauma"`) {
		t.Error("String field not found in output")
	}
	if !strings.Contains(output, `"count":200`) {
		t.Error("Int field not found in output")
	}
	if !strings.Contains(output, `"rts":true`) {
		t.Error("Bool field not found in output")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf)
	logger := &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}

	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}

	logger.WithError(&testError{msg: "connection reset"}).Error("page failed")

	output := buf.String()
	assert.Contains(t, output, "page failed")
	assert.Contains(t, output, "connection reset")
}

func TestFieldChainingDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf)
	base := &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}

	child := base.WithField("user", "alice").WithField("cursor", int64(99))
	child.InfoWithFields("next page", map[string]interface{}{
		"delay": 5 * time.Second,
	})
	assert.Contains(t, buf.String(), `"user":"alice"`)
	assert.Contains(t, buf.String(), `"cursor":99`)

	buf.Reset()
	base.Info("plain")
	assert.NotContains(t, buf.String(), "alice")
}

func TestGlobalLogger(t *testing.T) {
	err := Initialize(&config.LoggingConfig{Level: "error"})
	require.NoError(t, err)
	assert.NotNil(t, GetLogger())

	test := NewTestLogger()
	SetLogger(test)
	defer SetLogger(nil)

	Info("info message")
	Warn("warn message")
	WithField("key", "value").Error("with field")

	assert.True(t, test.HasMessage("info message"))
	assert.Len(t, test.GetMessagesByLevel("ERROR"), 1)
}

// Helper error type for testing
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
