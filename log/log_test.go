package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelError), WithPretty(false))

	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestLogger_Trace_RendersTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))

	logger.Trace("resolved imports", slog.Int("count", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}

	if record["level"] != "TRACE" {
		t.Errorf("expected level TRACE, got %v", record["level"])
	}
	if record["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", record["count"])
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false)).
		With(slog.String("component", "resolver"))

	logger.Info("started")

	if !strings.Contains(buf.String(), `"component":"resolver"`) {
		t.Errorf("expected attribute in output, got: %s", buf.String())
	}
}

func TestLogger_PrettyText_IncludesGroupedAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithTimeLayout("none"))

	logger.Info("problem", slog.Group("at", slog.Int("start", 4), slog.Int("end", 9)))

	out := buf.String()
	for _, want := range []string{"problem", "at.start=", "at.end="} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
}

func TestLogger_PrettyJSON_IsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))

	logger.Warn("odd, but \"quoted\"", slog.String("key", "a,b:{c}"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("pretty JSON output is not valid JSON %q: %v", buf.String(), err)
	}

	if record["key"] != "a,b:{c}" {
		t.Errorf("string content altered by indentation: %v", record["key"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("expected indented output, got %q", buf.String())
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var logger Logger

	logger.Info("discarded")
	logger.With(slog.String("k", "v")).Error("discarded")

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level for zero logger, got %v", logger.Level())
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			logger.Info("concurrent", slog.Int("n", 1))
		}()
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 16 {
		t.Errorf("expected 16 lines, got %d", got)
	}
}

func TestPackage_Config_ReconfiguresDefault(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	defaultLog = Make(&buf, WithFormat(FormatJSON), WithPretty(false))

	Config(WithLevel(LevelDebug))
	Debug("now visible", slog.String("key", "value"))

	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("expected debug record after Config, got: %s", buf.String())
	}
}
