package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel("info")

	SetLevel("warn")
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestPercentLiteralWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	// called through a value so the literal reaches the no-args path unchanged
	logErr := Errorf
	logErr("Percentage of Population (%)")
	if !strings.Contains(buf.String(), "Percentage of Population (%)") {
		t.Fatalf("literal percent mangled: %q", buf.String())
	}
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	defer SetLevel("info")
	SetLevel("debug")
	SetLevel("verbose")
	if GetLevel() != LevelDebug {
		t.Fatalf("unknown level changed state: %v", GetLevel())
	}
	if _, ok := ParseLevel(" Warning "); !ok {
		t.Fatalf("expected warning alias to parse")
	}
}
