package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkggraph/pkg/observability"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	// Test that it can log
	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	// Small delay to ensure measurable duration
	time.Sleep(10 * time.Millisecond)

	prog.done("Loaded 3 packages")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	// Should contain the message
	if !bytes.Contains(buf.Bytes(), []byte("Loaded 3 packages")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	logger := log.Default()

	ctxWithLogger := withLogger(ctx, logger)

	// Should be able to retrieve the logger
	retrieved := loggerFromContext(ctxWithLogger)
	if retrieved != logger {
		t.Error("loggerFromContext should return the same logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	ctx := context.Background()

	// Without logger in context, should return default
	logger := loggerFromContext(ctx)
	if logger == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}
}

func TestLoggerFromContextWithValue(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	customLogger := newLogger(&buf, log.InfoLevel)

	ctx = withLogger(ctx, customLogger)
	retrieved := loggerFromContext(ctx)

	if retrieved != customLogger {
		t.Error("loggerFromContext should return the custom logger")
	}

	// Verify it works by logging
	retrieved.Info("test")
	if buf.Len() == 0 {
		t.Error("custom logger should write to buffer")
	}
}

// recordingHooks counts forwarded events.
type recordingHooks struct {
	observability.NoopGraphHooks
	observability.NoopQueryHooks
	builds, closures, activations int
}

func (r *recordingHooks) OnBuild(int, int, time.Duration, error) { r.builds++ }
func (r *recordingHooks) OnClosure(string, int, int, time.Duration) { r.closures++ }
func (r *recordingHooks) OnActivate(int, int, time.Duration, error) { r.activations++ }

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	next := &recordingHooks{}
	h := &logHooks{logger: newLogger(&buf, log.DebugLevel), graph: next, query: next}

	h.OnBuild(3, 2, time.Millisecond, nil)
	h.OnBuild(0, 0, time.Millisecond, errors.New("boom"))
	h.OnFeatureGraph(5, 4, time.Millisecond)
	h.OnClosure("forward", 1, 3, time.Millisecond)
	h.OnCycles(0, time.Millisecond)
	h.OnActivate(1, 2, time.Millisecond, nil)

	if next.builds != 2 || next.closures != 1 || next.activations != 1 {
		t.Errorf("forwarded builds=%d closures=%d activations=%d, want 2, 1, 1",
			next.builds, next.closures, next.activations)
	}
	out := buf.String()
	for _, want := range []string{"Built graph", "Graph build failed", "Derived feature graph", "Computed closure", "Searched cycles", "Activated features"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{
		logger: newLogger(&buf, log.InfoLevel),
		graph:  observability.NoopGraphHooks{},
		query:  observability.NoopQueryHooks{},
	}
	h.OnBuild(3, 2, time.Millisecond, nil)
	h.OnCycles(1, time.Millisecond)

	if buf.Len() != 0 {
		t.Errorf("hook events should only be logged at debug level, got %q", buf.String())
	}
}
