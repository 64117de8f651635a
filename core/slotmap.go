package core

import "iter"

// Handle identifies a value stored in a SlotMap. The zero Handle is never
// valid.
type Handle[T any] struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle[T]) IsZero() bool {
	return h.gen == 0
}

type slot[T any] struct {
	value    T
	gen      uint32
	occupied bool
}

// SlotMap is an arena with generational handles. Removing a value bumps the
// slot's generation so handles issued before the removal stop resolving.
// Pointers returned by Get stay valid until the value is removed.
type SlotMap[T any] struct {
	slots []*slot[T]
	free  []uint32
	len   int
}

// Insert stores v and returns its handle.
func (m *SlotMap[T]) Insert(v T) Handle[T] {
	m.len++
	if n := len(m.free); n > 0 {
		idx := m.free[n-1]
		m.free = m.free[:n-1]
		s := m.slots[idx]
		s.value = v
		s.occupied = true
		return Handle[T]{index: idx, gen: s.gen}
	}

	idx := uint32(len(m.slots))
	m.slots = append(m.slots, &slot[T]{value: v, gen: 1, occupied: true})
	return Handle[T]{index: idx, gen: 1}
}

func (m *SlotMap[T]) lookup(h Handle[T]) *slot[T] {
	if h.IsZero() || int(h.index) >= len(m.slots) {
		return nil
	}
	s := m.slots[h.index]
	if !s.occupied || s.gen != h.gen {
		return nil
	}
	return s
}

// Get returns a pointer to the value behind h.
func (m *SlotMap[T]) Get(h Handle[T]) (*T, bool) {
	s := m.lookup(h)
	if s == nil {
		return nil, false
	}
	return &s.value, true
}

// Contains reports whether h still resolves.
func (m *SlotMap[T]) Contains(h Handle[T]) bool {
	return m.lookup(h) != nil
}

// Remove deletes the value behind h and returns it.
func (m *SlotMap[T]) Remove(h Handle[T]) (T, bool) {
	var zero T
	s := m.lookup(h)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	s.gen++
	m.free = append(m.free, h.index)
	m.len--
	return v, true
}

// All iterates live values in slot order.
func (m *SlotMap[T]) All() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		for i, s := range m.slots {
			if !s.occupied {
				continue
			}
			if !yield(Handle[T]{index: uint32(i), gen: s.gen}, &s.value) {
				return
			}
		}
	}
}

// Len returns the number of live values.
func (m *SlotMap[T]) Len() int {
	return m.len
}
