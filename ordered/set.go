// Package ordered provides an insertion-ordered set. Iteration order is part
// of the contract of every container built on it: task queues drain in push
// order and sources notify observers in registration order.
package ordered

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Set[K comparable] struct {
	m *orderedmap.OrderedMap[K, struct{}]
}

func New[K comparable]() *Set[K] {
	return &Set[K]{m: orderedmap.New[K, struct{}]()}
}

// Add appends k if it is not already present and reports whether it did.
// A present key keeps its position.
func (s *Set[K]) Add(k K) bool {
	_, present := s.m.Set(k, struct{}{})
	return !present
}

// MoveToBack appends k, moving it to the end if it is already present.
func (s *Set[K]) MoveToBack(k K) {
	if _, present := s.m.Get(k); present {
		s.m.Delete(k)
	}
	s.m.Set(k, struct{}{})
}

func (s *Set[K]) Remove(k K) bool {
	_, present := s.m.Delete(k)
	return present
}

func (s *Set[K]) Has(k K) bool {
	_, present := s.m.Get(k)
	return present
}

func (s *Set[K]) Len() int {
	return s.m.Len()
}

// Slice returns a snapshot of the keys in insertion order. Mutating the set
// afterwards does not affect the snapshot.
func (s *Set[K]) Slice() []K {
	keys := make([]K, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each walks the live set in order until fn returns false. fn must not
// mutate the set; use Slice for that.
func (s *Set[K]) Each(fn func(K) bool) {
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key) {
			return
		}
	}
}

func (s *Set[K]) Clear() {
	s.m = orderedmap.New[K, struct{}]()
}
