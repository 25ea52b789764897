package byteutil

import (
	"bytes"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	for _, id := range []int64{0, 1, -1, 42, -1001234567890, 1 << 62} {
		b := EncodeInt64ToBytes(id)
		if len(b) != 8 {
			t.Fatalf("expected 8 bytes got %d", len(b))
		}

		if got := DecodeBytesToInt64(b); got != id {
			t.Errorf("expected %d got %d", id, got)
		}
	}

	if got := DecodeBytesToInt64([]byte{1, 2}); got != 0 {
		t.Errorf("short input must decode to 0, got %d", got)
	}
}

func TestPrefixedKey(t *testing.T) {
	t.Parallel()

	key := PrefixedKey("score", 7)
	if !bytes.HasPrefix(key, []byte("score")) {
		t.Fatalf("key %v must start with prefix", key)
	}

	if got := DecodeBytesToInt64(key[len("score"):]); got != 7 {
		t.Errorf("expected 7 got %d", got)
	}
}
