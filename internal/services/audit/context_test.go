package audit

import (
	"context"
	"testing"
)

func TestClientIPRoundTrip(t *testing.T) {
	ctx := WithClientIP(context.Background(), "10.0.0.7")
	if got := ClientIPFromContext(ctx); got != "10.0.0.7" {
		t.Errorf("got %q, want %q", got, "10.0.0.7")
	}
}

func TestClientIPAbsent(t *testing.T) {
	if got := ClientIPFromContext(context.Background()); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
