package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger is a logger that keeps its JSON output in memory.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger returns a trace level logger writing to a buffer. The
// global level is lowered for the test and restored afterwards.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Output returns everything logged so far.
func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Count returns the number of log entries.
func (tl *TestLogger) Count() int {
	out := strings.TrimSpace(tl.Output())
	if out == "" {
		return 0
	}
	return strings.Count(out, "\n") + 1
}

// ContainsAll reports whether the output contains every substring.
func (tl *TestLogger) ContainsAll(substrs ...string) bool {
	out := tl.Output()
	for _, s := range substrs {
		if !strings.Contains(out, s) {
			return false
		}
	}
	return true
}

// AssertContains fails the test when the output lacks substr.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Output(), substr) {
		t.Errorf("log output does not contain %q\nOutput:\n%s", substr, tl.Output())
	}
}

// AssertCount fails the test unless exactly n entries were logged.
func (tl *TestLogger) AssertCount(t testing.TB, n int) {
	t.Helper()
	if got := tl.Count(); got != n {
		t.Errorf("expected %d log entries, got %d\nOutput:\n%s", n, got, tl.Output())
	}
}

// CaptureLoggingForTest installs a TestLogger as the default logger until
// the test ends.
func CaptureLoggingForTest(t testing.TB) *TestLogger {
	t.Helper()
	prev := *Default()
	tl := NewTestLogger(t)
	SetDefault(*tl.Logger)
	t.Cleanup(func() { SetDefault(prev) })
	return tl
}
