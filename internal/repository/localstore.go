package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrKeyNotFound is returned by Get for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// LocalStore is a small persistent key/value store kept in one JSON file,
// the on-disk counterpart of browser local storage. Values are raw JSON.
type LocalStore struct {
	mu   sync.Mutex
	path string
}

// NewLocalStore creates a LocalStore backed by path. The file and its
// directory are created on first write.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

// Path returns the backing file.
func (s *LocalStore) Path() string {
	return s.path
}

// Get returns the raw value stored under key.
func (s *LocalStore) Get(key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return nil, err
	}
	v, ok := items[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key, encoding it as JSON.
func (s *LocalStore) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		// A corrupt file is replaced rather than blocking every write.
		items = map[string]json.RawMessage{}
	}
	items[key] = data
	return s.save(items)
}

// Remove deletes key. Removing a missing key is not an error.
func (s *LocalStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		items = map[string]json.RawMessage{}
	}
	if _, ok := items[key]; !ok && err == nil {
		return nil
	}
	delete(items, key)
	return s.save(items)
}

func (s *LocalStore) load() (map[string]json.RawMessage, error) {
	items := map[string]json.RawMessage{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return items, nil
}

// save writes through a temp file and rename so readers never see a torn file.
func (s *LocalStore) save(items map[string]json.RawMessage) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".localstore-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
