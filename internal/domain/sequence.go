package domain

// Sequence hands out strictly increasing identifiers starting at 1.
// Each order book owns its own sequences so that independent books
// never share counters.
type Sequence struct {
	last uint64
}

// NewSequence creates a sequence whose first Next returns start+1.
func NewSequence(start uint64) *Sequence {
	return &Sequence{last: start}
}

// Next returns the next identifier.
func (s *Sequence) Next() uint64 {
	s.last++
	return s.last
}

// Advance moves the sequence past v so that Next never returns v or
// anything below it. It never moves the sequence backwards.
func (s *Sequence) Advance(v uint64) {
	if v > s.last {
		s.last = v
	}
}
