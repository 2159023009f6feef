package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"  nonsense ", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestInitNamedJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})

	Named("tracker").Debug().Str("week", "2026-10-18").Msg("adopted")
	Get().Trace().Msg("hidden")

	out := buf.String()
	for _, want := range []string{`"component":"tracker"`, `"week":"2026-10-18"`, `"message":"adopted"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("trace line should be filtered at debug level: %s", out)
	}
}

func TestOpenFileCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "franklin.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	_ = f.Close()
}
