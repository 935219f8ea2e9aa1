// Package sessionid generates sortable identifiers for table sessions: a
// UUIDv7 layout written as 26 characters of Crockford base32.
package sessionid

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/coder/quartz"
)

const (
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
	Length   = 26
)

// Generator creates session IDs. It is not safe for concurrent use.
type Generator struct {
	clock quartz.Clock
	rng   *rand.Rand
}

// NewGenerator returns a generator stamping IDs from clock, with random
// bits from rng.
func NewGenerator(clock quartz.Clock, rng *rand.Rand) *Generator {
	return &Generator{clock: clock, rng: rng}
}

// Generate returns a new ID. IDs from later milliseconds sort after earlier ones.
func (g *Generator) Generate() string {
	var id [16]byte
	binary.BigEndian.PutUint64(id[:8], uint64(g.clock.Now().UnixMilli())<<16)
	binary.BigEndian.PutUint16(id[6:8], uint16(g.rng.Uint32()))
	binary.BigEndian.PutUint64(id[8:], g.rng.Uint64())

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return encode(id)
}

func encode(id [16]byte) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// Validate checks that id is a well-formed session ID.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("session ID must be exactly %d characters, got %d", Length, len(id))
	}
	// 26 characters carry 130 bits, so the first holds only 3
	if id[0] > '7' {
		return fmt.Errorf("session ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
