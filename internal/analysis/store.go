// Package analysis holds the per-name facts the erasure analysis computes
// ahead of lowering: usage records (which argument/field positions are read
// at run time) and optimisation records (detaggability, inaccessible
// positions). Access goes through a generic keyed store with transparent
// defaults; a missing entry is never an error.
package analysis

import "sync"

// Accessor is the minimal read/write contract over one keyed record
// family. Store satisfies it; tests and adapters may provide their own.
type Accessor[K comparable, V any] interface {
	Read(K) V
	Write(K, V)
}

// Modify applies f to the record at key and writes the result back.
// When the accessor provides its own atomic Modify (as Store does), that
// is used; otherwise the update composes Read and Write and is only as
// atomic as the caller's context.
func Modify[K comparable, V any](a Accessor[K, V], key K, f func(V) V) {
	if s, ok := a.(interface{ Modify(K, func(V) V) }); ok {
		s.Modify(key, f)
		return
	}
	a.Write(key, f(a.Read(key)))
}

// Store is a mutex-guarded map from key to record with a default for
// absent keys. The zero default function yields V's zero value.
type Store[K comparable, V any] struct {
	mu  sync.RWMutex
	m   map[K]V
	def func(K) V
}

// NewStore returns an empty store. def supplies the record for keys that
// were never written; nil means the zero value.
func NewStore[K comparable, V any](def func(K) V) *Store[K, V] {
	return &Store[K, V]{m: make(map[K]V), def: def}
}

// Read returns the record at key, or the default when absent. The result
// shares internal state with the store; callers must treat it as
// read-only and go through Write or Modify to change it.
func (s *Store[K, V]) Read(key K) V {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	if ok {
		return v
	}
	if s.def != nil {
		return s.def(key)
	}
	var zero V
	return zero
}

// Write stores the record at key, replacing any previous value.
func (s *Store[K, V]) Write(key K, v V) {
	s.mu.Lock()
	s.m[key] = v
	s.mu.Unlock()
}

// Modify atomically replaces the record at key with f applied to the
// current value (or the default when absent). f runs under the store
// lock and must not touch the store itself.
func (s *Store[K, V]) Modify(key K, f func(V) V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		if s.def != nil {
			v = s.def(key)
		}
	}
	s.m[key] = f(v)
}

// Has reports whether key was explicitly written.
func (s *Store[K, V]) Has(key K) bool {
	s.mu.RLock()
	_, ok := s.m[key]
	s.mu.RUnlock()
	return ok
}

// Len returns the number of explicitly written records.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Keys returns the explicitly written keys in map order. Callers that
// need determinism sort the result themselves.
func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	return keys
}
