package filestore

import (
	"context"
	"sync"
)

// Memory is an in-process file store for tests. Paths are just keys; there
// are no bytes behind them.
type Memory struct {
	mu      sync.Mutex
	objects map[string]struct{}
	failOn  map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]struct{}),
		failOn:  make(map[string]error),
	}
}

// Put registers an object path.
func (s *Memory) Put(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = struct{}{}
}

// FailRemove makes Remove return err for the given path. Used to test that
// file-deletion failures are swallowed.
func (s *Memory) FailRemove(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[path] = err
}

// Has reports whether the path is present.
func (s *Memory) Has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok
}

func (s *Memory) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failOn[path]; ok {
		return err
	}
	delete(s.objects, path)
	return nil
}
