package strpool

import "testing"

func TestRelease(t *testing.T) {
	t.Parallel()

	b := Get()
	b.WriteString("leaderboard")
	if b.String() != "leaderboard" {
		t.Fatalf("unexpected content %q", b.String())
	}

	Release(b)
	if b.Len() != 0 {
		t.Errorf("released builder must be empty, got %d bytes", b.Len())
	}

	if got := Get(); got.Len() != 0 {
		t.Errorf("pooled builder must be empty, got %q", got.String())
	}
}
