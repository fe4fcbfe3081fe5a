package ecs

type componentStore interface {
	remove(e Entity) bool
	len() int
}

// sparseSet stores one component type densely, indexed by entity slot.
type sparseSet[T any] struct {
	sparse []int32 // dense index + 1, 0 when absent
	owners []Entity
	values []*T
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) index(e Entity) (int, bool) {
	id := int(e.id())
	if id >= len(s.sparse) {
		return 0, false
	}
	idx := int(s.sparse[id]) - 1
	if idx < 0 || s.owners[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	if idx, ok := s.index(e); ok {
		s.values[idx] = v
		return
	}
	id := int(e.id())
	for id >= len(s.sparse) {
		s.sparse = append(s.sparse, 0)
	}
	s.owners = append(s.owners, e)
	s.values = append(s.values, v)
	s.sparse[id] = int32(len(s.owners))
}

func (s *sparseSet[T]) remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.owners) - 1
	moved := s.owners[last]
	s.owners[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()] = int32(idx + 1)

	s.owners[last] = 0
	s.values[last] = nil
	s.owners = s.owners[:last]
	s.values = s.values[:last]
	s.sparse[e.id()] = 0
	return true
}

func (s *sparseSet[T]) len() int {
	return len(s.owners)
}

// snapshot copies the owner list so callers may mutate the set while
// iterating.
func (s *sparseSet[T]) snapshot() []Entity {
	return append([]Entity(nil), s.owners...)
}
