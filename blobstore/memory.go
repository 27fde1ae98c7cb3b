package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryStore is an in-memory Store, safe for concurrent use. Useful for
// tests and for running the engine without touching disk.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Put stores data under name, replacing any previous content.
func (s *MemoryStore) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = append([]byte(nil), data...)
}

// Get returns a copy of the blob's content.
func (s *MemoryStore) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Open opens a blob for reading.
func (s *MemoryStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := s.Get(name)
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create creates a blob whose content is committed on Close.
func (s *MemoryStore) Create(_ context.Context, name string) (io.WriteCloser, error) {
	return &memoryBlob{store: s, name: name}, nil
}

type memoryBlob struct {
	store *MemoryStore
	name  string
	buf   bytes.Buffer
}

func (b *memoryBlob) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

func (b *memoryBlob) Close() error {
	b.store.Put(b.name, b.buf.Bytes())
	return nil
}
