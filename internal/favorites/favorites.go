// Package favorites tracks the products a shopper has liked.
package favorites

import (
	"sort"
	"sync"
)

// Set is a toggle set of product ids, safe for concurrent use.
type Set struct {
	mu  sync.RWMutex
	ids map[int]struct{}
}

func New() *Set {
	return &Set{ids: make(map[int]struct{})}
}

// Toggle flips productID and reports whether it is now liked.
func (s *Set) Toggle(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[productID]; ok {
		delete(s.ids, productID)
		return false
	}
	s.ids[productID] = struct{}{}
	return true
}

func (s *Set) Has(productID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[productID]
	return ok
}

func (s *Set) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the liked ids in ascending order.
func (s *Set) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
