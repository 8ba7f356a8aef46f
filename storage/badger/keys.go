package badger

import "encoding/binary"

// Key prefixes for snapshot storage
const (
	rowPrefix = "evirow"
	metaKey   = "evimeta"
)

// makeRowKey generates a key for an evidence row by corpus position.
// Positions are written in BigEndian order so iteration visits rows
// in positional order.
func makeRowKey(position int) []byte {
	prefix := rowPrefix + ":"
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(position))
	return buf
}
