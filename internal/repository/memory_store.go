package repository

import "slices"

// MemoryStore is a keyed in-memory table that remembers insertion order.
// It does no locking; callers serialize access.
type MemoryStore[T any] struct {
	items map[string]T
	order []string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{items: make(map[string]T)}
}

// Get returns the item stored under key.
func (s *MemoryStore[T]) Get(key string) (T, bool) {
	item, ok := s.items[key]
	return item, ok
}

// Has reports whether key is present.
func (s *MemoryStore[T]) Has(key string) bool {
	_, ok := s.items[key]
	return ok
}

// Insert adds item under key and reports false if the key is already taken.
func (s *MemoryStore[T]) Insert(key string, item T) bool {
	if s.Has(key) {
		return false
	}
	s.items[key] = item
	s.order = append(s.order, key)
	return true
}

// Put inserts or replaces item under key. A replaced item keeps its position.
// It reports whether an existing item was replaced.
func (s *MemoryStore[T]) Put(key string, item T) bool {
	replaced := s.Has(key)
	s.items[key] = item
	if !replaced {
		s.order = append(s.order, key)
	}
	return replaced
}

// Values returns the items in insertion order as a new slice.
func (s *MemoryStore[T]) Values() []T {
	out := make([]T, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.items[key])
	}
	return out
}

// Filter returns the items matching keep, in insertion order.
func (s *MemoryStore[T]) Filter(keep func(T) bool) []T {
	out := make([]T, 0)
	for _, key := range s.order {
		if item := s.items[key]; keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Len returns the number of stored items.
func (s *MemoryStore[T]) Len() int {
	return len(s.order)
}

// Keys returns the keys in insertion order.
func (s *MemoryStore[T]) Keys() []string {
	return slices.Clone(s.order)
}

// Reset replaces the whole content with items keyed by key. Later duplicates win.
func (s *MemoryStore[T]) Reset(items []T, key func(T) string) {
	s.items = make(map[string]T, len(items))
	s.order = s.order[:0:0]
	for _, item := range items {
		s.Put(key(item), item)
	}
}
