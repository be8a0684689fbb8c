package services

import "fmt"

// IDSequence hands out sequential line-item ids for one generation run.
// Each request should build its own sequence; it is not safe for concurrent use.
type IDSequence struct {
	next int
}

// NewIDSequence returns a sequence whose first id is "li-001".
func NewIDSequence() *IDSequence {
	return &IDSequence{next: 1}
}

// Next returns the next id and advances the sequence.
func (s *IDSequence) Next() string {
	if s.next < 1 {
		s.next = 1
	}
	id := formatShellID(s.next)
	s.next++
	return id
}

// Reset rewinds the sequence so the next id is "li-001" again.
func (s *IDSequence) Reset() {
	s.next = 1
}

func formatShellID(n int) string {
	return fmt.Sprintf("li-%03d", n)
}
