package host

import (
	"context"
	"fmt"
	"sync"
)

// MemStorage is an in-memory Storage adapter, used when no sqlite
// path is configured and throughout the tests.
type MemStorage struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{m: make(map[string][]byte)}
}

func (s *MemStorage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.m[key] = cp
	return nil
}

func (s *MemStorage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (s *MemStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// MemMenus is an in-process MenuRegistry. The real browser registry
// lives behind the same interface; this adapter backs local runs.
type MemMenus struct {
	mu sync.Mutex
	m  map[string]Menu
}

func NewMemMenus() *MemMenus {
	return &MemMenus{m: make(map[string]Menu)}
}

func (r *MemMenus) RemoveAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = make(map[string]Menu)
	return nil
}

func (r *MemMenus) Create(ctx context.Context, m Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		return fmt.Errorf("menu id must not be empty")
	}
	if _, dup := r.m[m.ID]; dup {
		return fmt.Errorf("menu %q already exists", m.ID)
	}
	r.m[m.ID] = m
	return nil
}

func (r *MemMenus) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return fmt.Errorf("menu %q does not exist", id)
	}
	delete(r.m, id)
	return nil
}

// Len reports the number of registered entries.
func (r *MemMenus) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}
