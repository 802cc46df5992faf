package contract

import (
	"context"
	"sort"
)

// State is the flat key/value store the engine persists into.
type State interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
}

// Write is one buffered mutation, a nil Value deletes the key.
type Write struct {
	Key   string
	Value *string
}

// Batcher is implemented by stores that can apply a whole call durably in one go.
// A failed ApplyBatch must leave the store unchanged.
type Batcher interface {
	ApplyBatch(ctx context.Context, writes []Write) error
}

// txState buffers every write of one engine call on top of the backing store.
// Nothing reaches the store until commit, so a failing call leaves no trace.
type txState struct {
	base   State
	writes map[string]*string
}

func newTxState(base State) *txState {
	return &txState{base: base, writes: make(map[string]*string)}
}

// Set drops writes that would leave the backing store unchanged.
func (t *txState) Set(key, value string) {
	if _, buffered := t.writes[key]; !buffered {
		if cur := t.base.Get(key); cur != nil && *cur == value {
			return
		}
	}
	v := value
	t.writes[key] = &v
}

func (t *txState) Get(key string) *string {
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil
		}
		cp := *v
		return &cp
	}
	return t.base.Get(key)
}

func (t *txState) Delete(key string) {
	t.writes[key] = nil
}

// pending lists buffered writes sorted by key so batches are deterministic.
func (t *txState) pending() []Write {
	keys := make([]string, 0, len(t.writes))
	for k := range t.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Write, 0, len(keys))
	for _, k := range keys {
		out = append(out, Write{Key: k, Value: t.writes[k]})
	}
	return out
}

// commit flushes into the backing store, through ApplyBatch when available.
func (t *txState) commit(ctx context.Context) error {
	writes := t.pending()
	if len(writes) == 0 {
		return nil
	}
	if b, ok := t.base.(Batcher); ok {
		return b.ApplyBatch(ctx, writes)
	}
	for _, w := range writes {
		if w.Value == nil {
			t.base.Delete(w.Key)
		} else {
			t.base.Set(w.Key, *w.Value)
		}
	}
	return nil
}
