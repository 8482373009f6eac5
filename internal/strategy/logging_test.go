package strategy

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nyxquant/latticebt/internal/verbosity"
)

func newLogTestStrategy(t *testing.T, v verbosity.Level) (*Strategy, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s := &Strategy{
		cfg: Config{
			Verbosity: v,
			Logger:    zerolog.New(&buf),
		},
	}
	s.currentTime = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	return s, &buf
}

func TestLogfSuppressedBelowConfiguredVerbosity(t *testing.T) {
	s, buf := newLogTestStrategy(t, verbosity.WARNING)
	s.logf(verbosity.TRANSACTIONS, "order %s placed", "abc")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestLogfEmitsTimestampedLineAtConfiguredVerbosity(t *testing.T) {
	s, buf := newLogTestStrategy(t, verbosity.TRANSACTIONS)
	s.logf(verbosity.TRANSACTIONS, "order %s placed", "abc")

	out := buf.String()
	if !strings.Contains(out, "2024-01-02 09:30:00.000 ~~~~ order abc placed") {
		t.Fatalf("unexpected log line: %q", out)
	}
}
