// Package idgen produces short, time-ordered identifiers for store records.
//
// An id is the base-36 Unix-millisecond timestamp followed by five random
// base-36 characters, e.g. "m1x9k2a7f3q0z". Ids are unique enough for one
// local store; records that arrive from the backend keep their own ids.
package idgen

import (
	"crypto/rand"
	"io"
	"strconv"
	"time"
)

const (
	alphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	randLength = 5
)

// Generator builds ids from a clock and a random source.
type Generator struct {
	now  func() time.Time
	rand io.Reader
}

// NewGenerator returns a Generator. Nil arguments select time.Now and crypto/rand.
func NewGenerator(now func() time.Time, random io.Reader) *Generator {
	if now == nil {
		now = time.Now
	}
	if random == nil {
		random = rand.Reader
	}
	return &Generator{now: now, rand: random}
}

// Next returns a new id.
func (g *Generator) Next() string {
	buf := make([]byte, randLength)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		// Fall back to timestamp-derived bytes; ids stay well formed.
		ns := g.now().UnixNano()
		for i := range buf {
			buf[i] = byte(ns >> (8 * i))
		}
	}
	suffix := make([]byte, randLength)
	for i, b := range buf {
		suffix[i] = alphabet[int(b)%len(alphabet)]
	}
	return strconv.FormatInt(g.now().UnixMilli(), 36) + string(suffix)
}

var std = NewGenerator(nil, nil)

// New returns an id from the default generator.
func New() string {
	return std.Next()
}
