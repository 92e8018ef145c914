package logger

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestConfigureWritesToBuffer(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, slog.LevelInfo)
	t.Cleanup(func() { Configure(os.Stderr, slog.LevelInfo) })

	Info("processed Word file", "path", "out/a-word.docx")
	Debug("hidden at info level")

	out := buf.String()
	if !strings.Contains(out, "processed Word file") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "path=out/a-word.docx") {
		t.Errorf("expected path attribute in output, got %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("debug record should be filtered at info level")
	}
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, slog.LevelDebug)
	t.Cleanup(func() { Configure(os.Stderr, slog.LevelInfo) })

	Debug("visible", "n", 3)
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug record should be written at debug level")
	}
}
