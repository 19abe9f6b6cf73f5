package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

// NewJobID returns a unique, time-ordered job identifier: 26 Crockford
// Base32 characters over a 48-bit millisecond timestamp plus 80 random bits.
// Status listings sort by submission time as a consequence.
func NewJobID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ts<<16)
	rand.Read(b[6:])
	// The sequence counter keeps IDs distinct within one millisecond.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 renders 128 bits as 26 characters, most significant first.
// 26*5 exceeds 128 by two bits, so the leading character carries only three.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	bit := 0
	for i := 25; i >= 0; i-- {
		v := 0
		for j := 0; j < 5; j++ {
			idx := bit + j
			if idx >= 128 {
				break
			}
			if b[15-idx/8]>>(idx%8)&1 == 1 {
				v |= 1 << j
			}
		}
		out[i] = crockford[v]
		bit += 5
	}
	return string(out[:])
}
