// Package store provides the key-value Entity Store that holds every capex
// collection as one JSON document per key.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Key names a stored collection or scalar.
type Key string

// The fixed keys of the entity store.
const (
	KeyResources    Key = "resources"
	KeyProjects     Key = "projects"
	KeyForecasts    Key = "forecasts"
	KeyActuals      Key = "actuals"
	KeySelectedYear Key = "selectedYear"
)

// Store is a synchronous whole-value key-value store. Set replaces the value
// under key; there is no partial update.
type Store interface {
	Get(key Key) (value []byte, ok bool, err error)
	Set(key Key, value []byte) error
}

// Load decodes the value under key, returning def when the key is absent.
func Load[T any](s Store, key Key, def T) (T, error) {
	data, ok, err := s.Get(key)
	if err != nil {
		return def, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return def, fmt.Errorf("decoding %s: %w", key, err)
	}
	return v, nil
}

// Save encodes v and writes it under key.
func Save[T any](s Store, key Key, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.Set(key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Batcher is implemented by stores that can replace several keys in one
// atomic write.
type Batcher interface {
	SetBatch(values map[Key][]byte) error
}

// Entry pairs a key with the value to save under it.
type Entry struct {
	Key   Key
	Value any
}

// SaveAll encodes every entry before writing any. A Batcher gets all of them
// in one SetBatch call; other stores are written key by key in argument order,
// so a failed write leaves the earlier keys replaced.
func SaveAll(s Store, entries ...Entry) error {
	values := make(map[Key][]byte, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e.Value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", e.Key, err)
		}
		values[e.Key] = data
	}

	if b, ok := s.(Batcher); ok {
		return b.SetBatch(values)
	}
	for _, e := range entries {
		if err := s.Set(e.Key, values[e.Key]); err != nil {
			return fmt.Errorf("writing %s: %w", e.Key, err)
		}
	}
	return nil
}

// Memory is an in-process Store, used by tests and as a scratch store. It is
// not a Batcher.
type Memory struct {
	mu   sync.RWMutex
	data map[Key][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[Key][]byte)}
}

// Get implements Store.
func (m *Memory) Get(key Key) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements Store.
func (m *Memory) Set(key Key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []Key {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]Key, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
