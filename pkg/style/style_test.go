package style

import (
	"strings"
	"testing"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := NoColor
	NoColor = true
	t.Cleanup(func() { NoColor = prev })
}

func TestBar(t *testing.T) {
	withoutColor(t)

	tests := []struct {
		pct    int
		filled int
		suffix string
	}{
		{0, 0, "   0%"},
		{50, 5, "  50%"},
		{100, 10, " 100%"},
		{140, 10, " 100%"},
		{-3, 0, "   0%"},
	}
	for _, tt := range tests {
		got := Bar(tt.pct, 10)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("Bar(%d) filled %d cells, want %d", tt.pct, n, tt.filled)
		}
		if !strings.HasSuffix(got, tt.suffix) {
			t.Errorf("Bar(%d) = %q, want suffix %q", tt.pct, got, tt.suffix)
		}
	}
}

func TestStatus(t *testing.T) {
	withoutColor(t)

	if got := Status("completed"); got != "✓ completed" {
		t.Errorf("Status(completed) = %q", got)
	}
	if got := Status("weird"); got != "weird" {
		t.Errorf("Status(weird) = %q", got)
	}
}

func TestColorToggle(t *testing.T) {
	prev := NoColor
	defer func() { NoColor = prev }()

	NoColor = false
	if got := C(Red, "x"); got != Red+"x"+Reset {
		t.Errorf("C with color = %q", got)
	}
	NoColor = true
	if got := Priority("high"); got != "high" {
		t.Errorf("Priority without color = %q", got)
	}
}
