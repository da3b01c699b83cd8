package log

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr int
	}{
		{"defaults", func(o *Options) {}, 0},
		{"json format", func(o *Options) { o.Format = "json" }, 0},
		{"bad level", func(o *Options) { o.Level = "loud" }, 1},
		{"bad format", func(o *Options) { o.Format = "xml" }, 1},
		{"both bad", func(o *Options) { o.Level = "loud"; o.Format = "xml" }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.mutate(o)
			if got := len(o.Validate()); got != tt.wantErr {
				t.Errorf("Validate() returned %d errors, want %d", got, tt.wantErr)
			}
		})
	}
}

func TestZapLoggerError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core)).WithName("device").WithValues("attempt", 2)

	l.Error(errors.New("no ap in range"), "Could not connect")
	l.Debug("frame", "n", 1)

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", logs.Len())
	}

	entry := logs.FilterLevelExact(zapcore.ErrorLevel).All()[0]
	if entry.LoggerName != "device" {
		t.Errorf("logger name = %q, want device", entry.LoggerName)
	}
	fields := entry.ContextMap()
	if fields["error"] != "no ap in range" {
		t.Errorf("error field = %v", fields["error"])
	}
	if fields["attempt"] != int64(2) {
		t.Errorf("attempt field = %v (%T)", fields["attempt"], fields["attempt"])
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	l := NewNopLogger()
	l.Info("ignored", "k", "v")
	l.Error(nil, "ignored")
	_ = l.Logr()
}
