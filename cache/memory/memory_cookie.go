// Package memory the in-memory cookie storage
package memory

import (
	"slices"
	"sync"

	"github.com/shiroyk/cookiecat/cache"
)

// Store is an implementation of cache.Store that keeps the cookie entries in-memory.
type Store struct {
	entries *sync.Map
}

// Load returns a copy of the entries of the domain.
func (s *Store) Load(domain string) ([]cache.Entry, error) {
	if entries, ok := s.entries.Load(domain); ok {
		return slices.Clone(entries.([]cache.Entry)), nil
	}
	return nil, nil
}

// Save replaces the entries of the domain.
func (s *Store) Save(domain string, entries []cache.Entry) error {
	if len(entries) == 0 {
		s.entries.Delete(domain)
		return nil
	}
	s.entries.Store(domain, slices.Clone(entries))
	return nil
}

// NewStore returns a new empty Store.
func NewStore() *Store {
	return &Store{entries: new(sync.Map)}
}

// NewCookie returns a new Cookie that will store cookies in-memory.
func NewCookie() cache.Cookie {
	return cache.NewCookie(NewStore())
}
