package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNew_WritesPrefixedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.InfoLevel, Prefix: "todo"})

	logger.Error("fetch failed", "op", "fetchTodos")

	out := buf.String()
	for _, want := range []string{"ERRO", "todo", "fetch failed", "op=fetchTodos"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, DefaultOptions())

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.WarnLevel, false},
		{"debug", log.DebugLevel, false},
		{" INFO ", log.InfoLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Configure(&buf, "", false, log.FatalLevel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Error("suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected fallback level to suppress errors, got %q", buf.String())
	}

	logger, _ = Configure(&buf, "error", true, log.FatalLevel)
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug to force debug level, got %q", buf.String())
	}

	if _, err := Configure(&buf, "chatty", false, log.InfoLevel); err == nil {
		t.Error("expected error for unknown level")
	}
}
