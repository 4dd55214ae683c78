// Package corner picks the corner that is eliminated in a round.
package corner

import (
	"fmt"
	"sync"
)

const (
	Min = 1
	Max = 4
)

// Source is the random stream a Selector draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

type Selector struct {
	mu  sync.Mutex // guards src, *rand.Rand is not safe for concurrent use
	src Source
}

func NewSelector(src Source) *Selector {
	return &Selector{src: src}
}

// Valid reports whether c is one of the four corners.
func Valid(c int) bool {
	return c >= Min && c <= Max
}

// Candidates returns the corners eligible for elimination when exclude
// was eliminated in the previous round. A nil exclude keeps all four.
func Candidates(exclude *int) []int {
	corners := make([]int, 0, Max)
	for c := Min; c <= Max; c++ {
		if exclude != nil && *exclude == c {
			continue
		}
		corners = append(corners, c)
	}
	return corners
}

// Select draws uniformly from Candidates(exclude).
func (s *Selector) Select(exclude *int) (int, error) {
	if exclude != nil && !Valid(*exclude) {
		return 0, fmt.Errorf("invalid excluded corner: %d", *exclude)
	}
	corners := Candidates(exclude)

	s.mu.Lock()
	i := s.src.Intn(len(corners))
	s.mu.Unlock()

	return corners[i], nil
}
