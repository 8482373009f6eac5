package livefeed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRejectsInvalidURL(t *testing.T) {
	if _, err := New("not-a-redis-url://###", "snapshots", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for invalid redis URL")
	}
}

func TestPublishFailsWhenRedisUnreachable(t *testing.T) {
	p, err := New("redis://127.0.0.1:1", "snapshots", zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()
	if err := p.Publish(context.Background(), Snapshot{BarIndex: 1}); err == nil {
		t.Fatalf("expected publish to an unreachable redis to fail")
	}
}
