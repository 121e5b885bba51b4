package document

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(_ context.Context, projectID, handle string, doc []byte) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	projectID, handle, err := normalizeKey(projectID, handle)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectKey(projectID, handle)] = append([]byte(nil), doc...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, projectID, handle string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	projectID, handle, err := normalizeKey(projectID, handle)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[objectKey(projectID, handle)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) List(_ context.Context, projectID string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	projectID, err := normalizeProject(projectID)
	if err != nil {
		return nil, err
	}
	prefix := projectID + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, 4)
	for key := range s.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, strings.TrimSuffix(strings.TrimPrefix(key, prefix), objectSuffix))
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, projectID, handle string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	projectID, handle, err := normalizeKey(projectID, handle)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, objectKey(projectID, handle))
	return nil
}

// GetURL returns "" because documents are only reachable through the gateway.
func (s *MemoryStore) GetURL(context.Context, string, string) (string, error) {
	return "", nil
}
