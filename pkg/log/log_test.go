package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetVerbose(false)

	SetLevel("error")
	Warn("hidden warning")
	if buf.Len() != 0 {
		t.Errorf("expected warn to be filtered at error level, got %q", buf.String())
	}

	SetLevel("debug")
	Debug("visible debug", "key", "value")
	if !strings.Contains(buf.String(), "visible debug") {
		t.Errorf("expected debug message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("expected structured attribute in output, got %q", buf.String())
	}
}

func TestSetLevelUnknownKeepsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetVerbose(false)

	SetLevel("error")
	SetLevel("chatty")
	Info("still hidden")
	if buf.Len() != 0 {
		t.Errorf("unknown level name should not change level, got %q", buf.String())
	}
}

func TestSetQuiet(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetVerbose(false)

	SetVerbose(true)
	SetQuiet(true)
	Warn("quiet warning")
	Error("loud error")

	out := buf.String()
	if strings.Contains(out, "quiet warning") {
		t.Errorf("warn should be suppressed in quiet mode: %q", out)
	}
	if !strings.Contains(out, "loud error") {
		t.Errorf("error should still be logged in quiet mode: %q", out)
	}
}
