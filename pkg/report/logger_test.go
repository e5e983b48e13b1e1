package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Errorf("debug message logged at warn level")
	}
	if strings.Contains(output, "info message") {
		t.Errorf("info message logged at warn level")
	}
	if !strings.Contains(output, "warn message") {
		t.Errorf("warn message missing")
	}
	if !strings.Contains(output, "error message") {
		t.Errorf("error message missing")
	}
}

func TestLoggerOff(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogOff)

	logger.Error("should not appear")
	if buf.Len() != 0 {
		t.Errorf("logger at off level wrote %q", buf.String())
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo)

	logger.Info("saved %d rows to %s", 12, "out.docx")

	output := buf.String()
	if !strings.Contains(output, "[INFO]") {
		t.Errorf("output %q missing level tag", output)
	}
	if !strings.Contains(output, "saved 12 rows to out.docx") {
		t.Errorf("output %q missing formatted message", output)
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo)

	logger.WithField("table", 2).Info("rendered")
	output := buf.String()
	if !strings.Contains(output, "table=2") {
		t.Errorf("output %q missing field", output)
	}

	buf.Reset()
	logger.WithFields(Fields{"rows": 4, "cols": 3}).Info("rendered")
	output = buf.String()
	if !strings.Contains(output, "rows=4") || !strings.Contains(output, "cols=3") {
		t.Errorf("output %q missing fields", output)
	}

	// The base logger must stay field-free.
	buf.Reset()
	logger.Info("plain")
	if strings.Contains(buf.String(), "table=") {
		t.Errorf("fields leaked into the base logger: %q", buf.String())
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogError)

	logger.Info("before")
	logger.SetLevel(LogDebug)
	logger.Info("after")

	output := buf.String()
	if strings.Contains(output, "before") {
		t.Errorf("info logged at error level")
	}
	if !strings.Contains(output, "after") {
		t.Errorf("info missing after SetLevel")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogDebug, "DEBUG"},
		{LogInfo, "INFO"},
		{LogWarn, "WARN"},
		{LogError, "ERROR"},
		{LogOff, "OFF"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogDebug},
		{"info", LogInfo},
		{"warn", LogWarn},
		{"error", LogError},
		{"off", LogOff},
		{"bogus", LogInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
