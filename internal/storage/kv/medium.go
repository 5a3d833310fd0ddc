package kv

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Medium is one physical key-value backing. Failures bubble up to the Store,
// which logs them and degrades to absent/no-op.
type Medium interface {
	Read(key string) ([]byte, bool, error)
	Write(key string, data []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Clear() error
}

// memoryMedium backs the session scope; it lives and dies with the process.
type memoryMedium struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryMedium() *memoryMedium {
	return &memoryMedium{
		mu:    sync.Mutex{},
		items: make(map[string][]byte),
	}
}

func (m *memoryMedium) Read(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.items[key]

	return data, ok, nil
}

func (m *memoryMedium) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = data

	return nil
}

func (m *memoryMedium) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)

	return nil
}

func (m *memoryMedium) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.items))
	for key := range m.items {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys, nil
}

func (m *memoryMedium) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string][]byte)

	return nil
}

const envelopeFileSuffix = ".json"

// fileMedium backs the local scope with one file per key under dir.
type fileMedium struct {
	dir string
}

func newFileMedium(dir string) (*fileMedium, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}

	return &fileMedium{dir: dir}, nil
}

func (m *fileMedium) path(key string) string {
	return filepath.Join(m.dir, url.QueryEscape(key)+envelopeFileSuffix)
}

func (m *fileMedium) Read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(m.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}

	return data, true, nil
}

func (m *fileMedium) Write(key string, data []byte) error {
	if err := os.WriteFile(m.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

func (m *fileMedium) Delete(key string) error {
	err := os.Remove(m.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

func (m *fileMedium) Keys() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("list storage dir: %w", err)
	}

	keys := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, envelopeFileSuffix) {
			continue
		}

		key, err := url.QueryUnescape(strings.TrimSuffix(name, envelopeFileSuffix))
		if err != nil {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys, nil
}

func (m *fileMedium) Clear() error {
	keys, err := m.Keys()
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := m.Delete(key); err != nil {
			return err
		}
	}

	return nil
}
