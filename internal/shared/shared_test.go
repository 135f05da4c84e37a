package shared

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "negative", seconds: -5, want: "0:00"},
		{name: "minutes", seconds: 185, want: "3:05"},
		{name: "hours", seconds: 3725, want: "1:02:05"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestSplitURI(t *testing.T) {
	tc := []struct {
		uri  string
		dir  string
		name string
	}{
		{uri: "song.mp3", dir: "", name: "song.mp3"},
		{uri: "a/b/song.mp3", dir: "a/b", name: "song.mp3"},
		{uri: "a/", dir: "a", name: ""},
	}

	for _, tt := range tc {
		t.Run(tt.uri, func(t *testing.T) {
			dir, name := SplitURI(tt.uri)
			if dir != tt.dir || name != tt.name {
				t.Errorf("SplitURI(%q) = %q, %q, want %q, %q", tt.uri, dir, name, tt.dir, tt.name)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("ConfigureLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		if err := ConfigureLogger(logger, "warn"); err != nil {
			t.Fatalf("ConfigureLogger failed: %v", err)
		}
		if logger.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level, got %v", logger.GetLevel())
		}

		logger.Info("hidden")
		logger.Warn("shown", "key", "value")
		out := buf.String()
		if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
			t.Errorf("unexpected log output %q", out)
		}

		if err := ConfigureLogger(logger, "loud"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
		if err := ConfigureLogger(logger, ""); err != nil {
			t.Errorf("empty level should be ignored, got %v", err)
		}
	})

	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "updater")
		logger.Info("started")

		if !strings.Contains(buf.String(), "component=updater") {
			t.Errorf("expected component field, got %q", buf.String())
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("unexpected IDs %q, %q", a, b)
		}
	})
}
