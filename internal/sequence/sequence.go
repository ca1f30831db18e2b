// Package sequence hands out human-readable invoice numbers (MP0001, MP0002, ...).
//
// Usage:
//
//	seq := sequence.New(lastPersisted)
//	id := seq.Next("")        // MP0001
//	id = seq.Next("MP0007")   // MP0007, counter moves to 7
//	id = seq.Generate()       // MP0008
//
// A Sequencer is not safe for concurrent use; the owning store serializes access.
package sequence

import (
	"fmt"
	"regexp"
	"strconv"
)

// Prefix starts every invoice number.
const Prefix = "MP"

var numberPattern = regexp.MustCompile(`^` + Prefix + `(\d+)$`)

// Sequencer tracks the last issued invoice number.
type Sequencer struct {
	last int
}

// New returns a Sequencer that resumes after last. Negative values start at zero.
func New(last int) *Sequencer {
	s := &Sequencer{}
	s.Restore(last)
	return s
}

// Last returns the counter value.
func (s *Sequencer) Last() int {
	return s.last
}

// Restore sets the counter, e.g. after loading persisted state.
func (s *Sequencer) Restore(last int) {
	if last < 0 {
		last = 0
	}
	s.last = last
}

// Next returns the number for a new invoice. When providedID is a valid
// invoice number it is used as is and the counter moves to
// max(last+1, its sequence); the counter never moves backward. Any other
// providedID is ignored and the next number in line is issued.
func (s *Sequencer) Next(providedID string) string {
	candidate := s.last + 1
	next := s.last + 1
	if seq, ok := Parse(providedID); ok {
		candidate = seq
		if seq > next {
			next = seq
		}
	}
	s.last = next
	return Format(candidate)
}

// Generate advances the counter by exactly one and returns the new number.
func (s *Sequencer) Generate() string {
	s.last++
	return Format(s.last)
}

// Observe raises the counter to id's sequence if that is higher, so numbers
// seen in imported or synced invoices are never issued again.
func (s *Sequencer) Observe(id string) {
	if seq, ok := Parse(id); ok && seq > s.last {
		s.last = seq
	}
}

// Format renders n as an invoice number padded to at least four digits.
func Format(n int) string {
	return fmt.Sprintf("%s%04d", Prefix, n)
}

// Parse extracts the sequence of an invoice number.
func Parse(id string) (int, bool) {
	m := numberPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
