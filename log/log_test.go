package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Zero(t *testing.T) {
	var logger Logger

	// None of these may panic.
	logger.Info("discarded")
	logger.TraceContext(context.Background(), "discarded")
	logger.With(slog.String("k", "v")).Error("discarded")
	logger.WithGroup("g").Warn("discarded")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("zero logger format = %v, want %v", logger.Format(), DefaultFormat)
	}

	var buf bytes.Buffer

	wrapped := logger.Wrap(WithOutput(&buf), WithLevel(LevelInfo))
	wrapped.Info("kept")

	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("wrapped zero logger did not write: %q", buf.String())
	}
}

func TestLogger_Make_Defaults(t *testing.T) {
	logger := Make(nil)

	if logger.Level() != LevelWarn {
		t.Errorf("default level = %v, want warn", logger.Level())
	}

	if logger.Format() != FormatText {
		t.Errorf("default format = %v, want text", logger.Format())
	}

	if logger.caller || !logger.pretty {
		t.Errorf("unexpected defaults caller=%v pretty=%v", logger.caller, logger.pretty)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	tests := []struct {
		level Level
		log   func(Logger)
		want  bool
	}{
		{LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{LevelDebug, func(l Logger) { l.Debug("m") }, true},
		{LevelInfo, func(l Logger) { l.Debug("m") }, false},
		{LevelInfo, func(l Logger) { l.Info("m") }, true},
		{LevelWarn, func(l Logger) { l.Info("m") }, false},
		{LevelWarn, func(l Logger) { l.Warn("m") }, true},
		{LevelError, func(l Logger) { l.Warn("m") }, false},
		{LevelError, func(l Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		tt.log(Make(&buf, WithLevel(tt.level)))

		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("level %v: logged = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"))

	logger.Trace("step", slog.Int("step", 1), slog.String("kind", "apply"))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	want := map[string]any{"level": "TRACE", "msg": "step", "step": 1.0, "kind": "apply"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}

	if _, ok := got["time"]; ok {
		t.Error("time was not suppressed")
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithLevel(LevelInfo), WithPretty(false)).
		Info("here")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("caller does not point at the test: %s", buf.String())
	}
}

func TestLogger_Pretty(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithLevel(LevelInfo), WithTimeLayout("none")).
			With(slog.String("file", "a.pipe")).
			WithGroup("step")

		logger.Info("done", slog.Int("index", 2), slog.Group("op", slog.String("name", "call")))

		want := "level=INFO msg=done file=a.pipe step.index=2 step.op.name=call\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithLevel(LevelInfo), WithTimeLayout("none"), WithFormat(FormatJSON))
		logger.Info("done", slog.Bool("hit", false), slog.Any("err", nil))

		want := "{\n  level: INFO,\n  msg: done,\n  hit: false,\n  err: null\n}\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("log valuer", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithLevel(LevelInfo), WithTimeLayout("none")).
			Info("failed", slog.Any("error", valuer{}))

		want := "level=INFO msg=failed error.msg=boom error.line=3\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})
}

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("msg", "boom"), slog.Int("line", 3))
}

func TestLogger_Wrap(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelError), WithPretty(false))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	base.Debug("hidden")
	wrapped.Debug("shown")

	if first.Len() != 0 {
		t.Errorf("base logger changed by Wrap: %q", first.String())
	}

	if !strings.Contains(second.String(), "shown") {
		t.Errorf("wrapped logger did not write: %q", second.String())
	}

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Errorf("levels = %v, %v", base.Level(), wrapped.Level())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		mu  sync.Mutex
		wg  sync.WaitGroup
	)

	logger := Make(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}), WithLevel(LevelInfo))

	for i := range 8 {
		wg.Go(func() {
			l := logger.With(slog.Int("worker", i))
			for range 10 {
				l.Info("tick")
			}
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 80 {
		t.Errorf("got %d lines, want 80", n)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
