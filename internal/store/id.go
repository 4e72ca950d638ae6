package store

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"time"
)

// GenerateID returns an opaque identifier: the unix-millisecond clock in
// base-36 followed by 64 random bits in base-36. The time component keeps
// identifiers roughly sortable, the random tail keeps collisions negligible
// even for calls within the same millisecond.
func GenerateID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand only fails on broken platforms; fall back to the clock
		binary.BigEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return ts + strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)
}
