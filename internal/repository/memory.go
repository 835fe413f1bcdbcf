package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a map-backed Store used in tests and for running without a
// database. Enumeration order matches the Postgres store (sorted by key).
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make(json.RawMessage, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory set %q: marshal: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		out := make(json.RawMessage, len(s.data[k]))
		copy(out, s.data[k])
		values = append(values, out)
	}
	return values, nil
}

// IncrCampaignCounters mirrors the atomic counter update of the Postgres
// store: the whole read-bump-write runs under the store lock.
func (s *MemoryStore) IncrCampaignCounters(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false, fmt.Errorf("memory incr %q: %w", key, err)
	}
	obj["impressions"] = asInt(obj["impressions"]) + 1
	obj["conversions"] = asInt(obj["conversions"]) + 1
	data, err := json.Marshal(obj)
	if err != nil {
		return false, fmt.Errorf("memory incr %q: %w", key, err)
	}
	s.data[key] = data
	return true, nil
}

func asInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}
