package contract

import (
	"context"

	"github.com/sasha-s/go-deadlock"
)

// MockState keeps everything in memory. It backs tests and is the read cache
// of the file and SQL stores.
type MockState struct {
	mu deadlock.RWMutex
	db map[string]string
}

func NewMockState() *MockState {
	return &MockState{db: make(map[string]string)}
}

func (m *MockState) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db[key] = value
}

func (m *MockState) Get(key string) *string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.db[key]
	if !ok {
		return nil
	}
	return &val
}

func (m *MockState) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.db, key)
}

// ApplyBatch on memory cannot fail, it only honours a cancelled context.
func (m *MockState) ApplyBatch(ctx context.Context, writes []Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(writes)
	return nil
}

func (m *MockState) apply(writes []Write) {
	for _, w := range writes {
		if w.Value == nil {
			delete(m.db, w.Key)
		} else {
			m.db[w.Key] = *w.Value
		}
	}
}

// Len is the number of stored keys.
func (m *MockState) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}

// snapshot copies the map, callers may mutate the copy.
func (m *MockState) snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[string]string, len(m.db))
	for k, v := range m.db {
		cp[k] = v
	}
	return cp
}
