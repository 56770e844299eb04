package index

import (
	"sort"
	"sync"
)

// StoreReader is an abstract KV store reader
type StoreReader interface {
	// Get must return a value for a given key or nil if not found
	Get(key []byte) (value []byte, err error)
	// Close implements the io.Closer interface
	Close() error
}

// StoreWriter is an abstract KV store writer
type StoreWriter interface {
	// Put adds a key/value pair to the store
	Put(key, value []byte) error
	// Close implements the io.Closer interface
	Close() error
}

// InMemStore implements StoreReader + StoreWriter on top of a map. It is
// meant for small data sets and tests.
type InMemStore struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewInMemStore inits an InMemStore
func NewInMemStore() *InMemStore {
	return &InMemStore{data: make(map[string][]byte)}
}

// Len returns the number of stored keys
func (m *InMemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}

// Get implements StoreReader
func (m *InMemStore) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.data[string(key)], nil
}

// Put implements StoreWriter. Values are copied, existing keys are
// overwritten.
func (m *InMemStore) Put(key, value []byte) error {
	sk := string(key)
	m.mu.Lock()
	val := m.data[sk]
	m.data[sk] = append(val[:0], value...)
	m.mu.Unlock()
	return nil
}

// Keys returns all stored keys in byte order.
func (m *InMemStore) Keys() [][]byte {
	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	res := make([][]byte, len(keys))
	for i, k := range keys {
		res[i] = []byte(k)
	}
	return res
}

// Close implements StoreReader + StoreWriter
func (*InMemStore) Close() error { return nil }
