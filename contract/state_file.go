package contract

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/sasha-s/go-deadlock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileState persists the whole map as one JSON document. Keys and values are
// binary, so keys are hex and values base64 on disk.
type FileState struct {
	*MockState
	mu       deadlock.Mutex
	filename string
}

// OpenFileState loads filename when it exists and starts empty otherwise.
func OpenFileState(filename string) (*FileState, error) {
	f := &FileState{MockState: NewMockState(), filename: filename}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

// ApplyBatch writes the next snapshot to disk first and only then updates memory.
func (f *FileState) ApplyBatch(ctx context.Context, writes []Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.snapshot()
	for _, w := range writes {
		if w.Value == nil {
			delete(next, w.Key)
		} else {
			next[w.Key] = *w.Value
		}
	}
	if err := f.save(next); err != nil {
		return err
	}
	f.MockState.mu.Lock()
	f.MockState.apply(writes)
	f.MockState.mu.Unlock()
	return nil
}

// Flush writes the current in-memory map, handy after direct Set calls.
func (f *FileState) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(f.snapshot())
}

// save goes through a temp file and rename so a crash never leaves half a document.
func (f *FileState) save(db map[string]string) error {
	doc := make(map[string]string, len(db))
	for k, v := range db {
		doc[hex.EncodeToString([]byte(k))] = base64.StdEncoding.EncodeToString([]byte(v))
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	tmp := f.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.filename); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (f *FileState) load() error {
	data, err := os.ReadFile(f.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // file doesn't exist yet
		}
		return fmt.Errorf("read state file: %w", err)
	}
	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode state file: %w", err)
	}
	for hk, bv := range doc {
		k, err := hex.DecodeString(hk)
		if err != nil {
			return fmt.Errorf("decode state key %q: %w", hk, err)
		}
		v, err := base64.StdEncoding.DecodeString(bv)
		if err != nil {
			return fmt.Errorf("decode state value for %q: %w", hk, err)
		}
		f.MockState.db[string(k)] = string(v)
	}
	return nil
}
