package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(tt.level, false)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", tt.level, err)
			}
			core := logger.Core()
			if !core.Enabled(tt.enabled) {
				t.Errorf("Expected %s to be enabled", tt.enabled)
			}
			if core.Enabled(tt.muted) {
				t.Errorf("Expected %s to be disabled", tt.muted)
			}
		})
	}
}

func TestNewDevelopment(t *testing.T) {
	if _, err := New("info", true); err != nil {
		t.Fatalf("New development logger failed: %v", err)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("loud", false); err == nil {
		t.Error("Expected error for invalid level, got nil")
	}
}
