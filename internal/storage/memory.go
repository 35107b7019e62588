package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"recordgate/internal/contenthash"
)

type memObject struct {
	data     []byte
	storedAt time.Time
}

// Memory is an in-process ContentStore. It backs tests and local runs
// without object storage; contents are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

var _ ContentStore = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memObject)}
}

func (m *Memory) Put(ctx context.Context, r io.Reader) (ObjectInfo, error) {
	if r == nil {
		return ObjectInfo{}, errors.New("storage: reader is nil")
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read content: %w", err)
	}
	hash, err := contenthash.Compute(data)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("compute hash: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[hash]
	if !ok {
		obj = memObject{data: data, storedAt: time.Now().UTC()}
		m.objects[hash] = obj
	}
	return ObjectInfo{Hash: hash, Size: int64(len(obj.data)), LastModified: obj.storedAt}, nil
}

func (m *Memory) Get(ctx context.Context, hash string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}
	m.mu.RLock()
	obj, ok := m.objects[hash]
	m.mu.RUnlock()
	if !ok {
		return nil, ObjectInfo{}, ErrNotFound
	}
	info := ObjectInfo{Hash: hash, Size: int64(len(obj.data)), LastModified: obj.storedAt}
	return io.NopCloser(bytes.NewReader(obj.data)), info, nil
}

func (m *Memory) Has(ctx context.Context, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[hash]
	return ok, nil
}
