package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLogLevel(tt.in); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetup_WritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "info", false)
	t.Cleanup(func() { Setup(&bytes.Buffer{}, "info", false) })

	Debug().Msg("hidden")
	Info().Str("key", "j").Msg("pressed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "pressed" || entry["key"] != "j" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "error", false)
	t.Cleanup(func() { Setup(&bytes.Buffer{}, "info", false) })

	Warn().Msg("dropped")
	SetLevel("debug")
	Debug().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("warn should be filtered at error level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("debug should pass after SetLevel(debug)")
	}
}
