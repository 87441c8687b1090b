package domain

import "testing"

func TestSequence(t *testing.T) {
	s := NewSequence(0)
	for want := uint64(1); want <= 3; want++ {
		if got := s.Next(); got != want {
			t.Errorf("Next() = %d, want %d", got, want)
		}
	}
}

func TestSequence_Independent(t *testing.T) {
	a := NewSequence(0)
	b := NewSequence(100)
	a.Next()
	a.Next()
	if got := b.Next(); got != 101 {
		t.Errorf("b.Next() = %d, want 101", got)
	}
}

func TestSequence_Advance(t *testing.T) {
	tests := []struct {
		name    string
		issued  int
		advance uint64
		want    uint64
	}{
		{"jumps forward", 1, 7, 8},
		{"equal to last", 3, 3, 4},
		{"never moves back", 5, 2, 6},
		{"zero on fresh sequence", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSequence(0)
			for i := 0; i < tt.issued; i++ {
				s.Next()
			}
			s.Advance(tt.advance)
			if got := s.Next(); got != tt.want {
				t.Errorf("Next() after Advance(%d) = %d, want %d", tt.advance, got, tt.want)
			}
		})
	}
}
