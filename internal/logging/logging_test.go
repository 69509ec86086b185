package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Init(Config{Format: "json", Level: "debug", Component: "scan", Out: &buf})
	log.Debug().Str("language", "python").Msg("dispatch")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "scan" || entry["language"] != "python" || entry["message"] != "dispatch" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := Init(Config{Format: "json", Level: "warn", Out: &buf})
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %q", buf.String())
	}
	log.Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Fatalf("warn should be written")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"DEBUG":    zerolog.DebugLevel,
		"warning":  zerolog.WarnLevel,
		"disabled": zerolog.Disabled,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestAutoFormatNonFileIsJSON(t *testing.T) {
	var buf bytes.Buffer
	if w := selectWriter("auto", &buf); w != &buf {
		t.Fatalf("auto on a buffer should write JSON directly")
	}
	if _, ok := selectWriter("console", &buf).(zerolog.ConsoleWriter); !ok {
		t.Fatalf("console format should use ConsoleWriter")
	}
}
