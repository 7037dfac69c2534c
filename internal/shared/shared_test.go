package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidEmail(t *testing.T) {
	tc := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"first.last@example.org", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a b@c.de", false},
		{"@example.com", false},
		{"", false},
	}

	for _, tt := range tc {
		t.Run(tt.email, func(t *testing.T) {
			if got := ValidEmail(tt.email); got != tt.want {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Someone@Example.COM "); got != "someone@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandHome("~/x/session.db"); got != filepath.Join(home, "x", "session.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/session.db"); got != "/abs/session.db" {
		t.Errorf("absolute paths should be untouched, got %q", got)
	}
}

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&buf)

		if err := SetLogLevel(l, "warn"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		l.Info("hidden")
		l.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
			t.Errorf("unexpected log output %q", out)
		}

		if err := SetLogLevel(l, "loud"); err == nil {
			t.Error("expected error for unknown level")
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tui.log")
		l, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		l.Info("started")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("log file should exist: %v", err)
		}
		if !strings.Contains(string(data), "started") {
			t.Errorf("log file missing entry: %q", data)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b || len(a) != 36 {
		t.Errorf("expected distinct uuids, got %q and %q", a, b)
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"a": 1}

	t.Run("compact", func(t *testing.T) {
		data, err := MarshalJSON(v, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"a":1}` {
			t.Errorf("got %s", data)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		data, err := MarshalJSON(v, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "{\n  \"a\": 1\n}" {
			t.Errorf("got %q", data)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, err := MarshalJSON(make(chan int), false); err == nil {
			t.Error("expected error for channel")
		}
	})
}
