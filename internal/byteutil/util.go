package byteutil

import (
	"encoding/binary"
)

func EncodeInt64ToBytes(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func DecodeBytesToInt64(b []byte) int64 {
	if len(b) < 8 {
		return 0
	}

	return int64(binary.BigEndian.Uint64(b))
}

// PrefixedKey concatenates a bucket prefix with a big-endian id.
func PrefixedKey(prefix string, id int64) []byte {
	b := make([]byte, len(prefix)+8)
	copy(b, prefix)
	copy(b[len(prefix):], EncodeInt64ToBytes(id))
	return b
}
