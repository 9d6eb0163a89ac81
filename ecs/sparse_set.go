package ecs

// SparseSet is a cache-friendly map from EntityID to T. Lookups go through
// a sparse index, iteration walks a dense slice.
type SparseSet[T any] struct {
	denseIDs    []EntityID
	denseValues []T
	sparse      map[EntityID]int
}

func NewSparseSet[T any]() *SparseSet[T] {
	return &SparseSet[T]{sparse: make(map[EntityID]int)}
}

// Has returns true if the id exists in the set.
func (s *SparseSet[T]) Has(id EntityID) bool {
	if s == nil || s.sparse == nil {
		return false
	}
	_, ok := s.sparse[id]
	return ok
}

// Get returns the value for id.
func (s *SparseSet[T]) Get(id EntityID) (T, bool) {
	var zero T
	if s == nil || s.sparse == nil {
		return zero, false
	}
	idx, ok := s.sparse[id]
	if !ok {
		return zero, false
	}
	return s.denseValues[idx], true
}

// Set inserts or updates the value for id.
func (s *SparseSet[T]) Set(id EntityID, v T) {
	if s == nil {
		return
	}
	if s.sparse == nil {
		s.sparse = make(map[EntityID]int)
	}
	if idx, ok := s.sparse[id]; ok {
		s.denseValues[idx] = v
		return
	}
	s.denseIDs = append(s.denseIDs, id)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id] = len(s.denseIDs) - 1
}

// Remove deletes the value for id if present. The last dense element is
// swapped into the hole, so Remove must not be called while iterating.
func (s *SparseSet[T]) Remove(id EntityID) {
	if s == nil || s.sparse == nil {
		return
	}
	idx, ok := s.sparse[id]
	if !ok {
		return
	}
	last := len(s.denseIDs) - 1
	lastID := s.denseIDs[last]

	s.denseIDs[idx] = s.denseIDs[last]
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastID] = idx

	var zero T
	s.denseValues[last] = zero
	s.denseIDs = s.denseIDs[:last]
	s.denseValues = s.denseValues[:last]
	delete(s.sparse, id)
}

// Len returns the number of stored values.
func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseIDs)
}

// IDs returns the dense id list. Callers must not modify it.
func (s *SparseSet[T]) IDs() []EntityID {
	if s == nil {
		return nil
	}
	return s.denseIDs
}

// Values returns the dense value list. Callers must not modify it.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.denseValues
}

// Clear drops every value.
func (s *SparseSet[T]) Clear() {
	if s == nil {
		return
	}
	clear(s.denseValues)
	s.denseIDs = s.denseIDs[:0]
	s.denseValues = s.denseValues[:0]
	s.sparse = make(map[EntityID]int)
}
