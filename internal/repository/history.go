package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/passguardian/passguardian-go/internal/model"
)

// HistoryKey is the single local storage key holding the history array.
const HistoryKey = "passwordHistory"

// HistoryRepository persists history entries locally, newest first, capped
// at model.MaxHistoryEntries and unique by id.
type HistoryRepository struct {
	mu    sync.Mutex
	store *LocalStore
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(store *LocalStore) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// List returns the stored entries, newest first. A missing key is an empty list.
func (r *HistoryRepository) List() ([]model.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list()
}

// Prepend stores entry in front of the existing entries.
func (r *HistoryRepository) Prepend(entry model.HistoryEntry) ([]model.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Unreadable history is started over rather than blocking the record.
	existing, readErr := r.list()
	entries := Normalize(append([]model.HistoryEntry{entry}, existing...))
	if err := r.store.Set(HistoryKey, entries); err != nil {
		return nil, fmt.Errorf("saving history: %w", err)
	}
	if readErr != nil {
		return entries, fmt.Errorf("history reset after read failure: %w", readErr)
	}
	return entries, nil
}

// Clear removes all stored entries.
func (r *HistoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Remove(HistoryKey); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

func (r *HistoryRepository) list() ([]model.HistoryEntry, error) {
	raw, err := r.store.Get(HistoryKey)
	if errors.Is(err, ErrKeyNotFound) {
		return []model.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	return Normalize(entries), nil
}

// Normalize drops entries without an id and later duplicates of an id, then
// caps the list. Order is preserved.
func Normalize(entries []model.HistoryEntry) []model.HistoryEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]model.HistoryEntry, 0, min(len(entries), model.MaxHistoryEntries))
	for _, e := range entries {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
		if len(out) == model.MaxHistoryEntries {
			break
		}
	}
	return out
}
