package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/repository"
)

// ErrRemoteClearFailed means local history was cleared but the server's was not.
var ErrRemoteClearFailed = errors.New("server history could not be cleared")

// HistoryRemote is the server side of the history.
type HistoryRemote interface {
	GetHistory(ctx context.Context) ([]model.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
}

// HistoryService merges the server history with the local store.
type HistoryService struct {
	repo   *repository.HistoryRepository
	remote HistoryRemote
	logger *slog.Logger
}

// NewHistoryService creates a new HistoryService. remote may be nil for
// local-only operation.
func NewHistoryService(repo *repository.HistoryRepository, remote HistoryRemote, logger *slog.Logger) *HistoryService {
	return &HistoryService{repo: repo, remote: remote, logger: logger}
}

// Record stores entry locally. Storage failures are logged, not returned.
func (s *HistoryService) Record(entry model.HistoryEntry) {
	if _, err := s.repo.Prepend(entry); err != nil {
		s.logger.Warn("recording history entry failed", "entry_id", entry.ID, "error", err)
	}
}

// Local returns the local entries alone.
func (s *HistoryService) Local() []model.HistoryEntry {
	entries, err := s.repo.List()
	if err != nil {
		s.logger.Warn("reading local history failed", "error", err)
		return []model.HistoryEntry{}
	}
	return entries
}

// List returns the merged history with filter applied. When the server
// cannot be reached the local entries are used alone; remoteErr reports why.
func (s *HistoryService) List(ctx context.Context, filter model.HistoryFilter) (entries []model.HistoryEntry, remoteErr error) {
	local := s.Local()

	var server []model.HistoryEntry
	if s.remote != nil {
		server, remoteErr = s.remote.GetHistory(ctx)
		if remoteErr != nil {
			s.logger.Warn("fetching server history failed, using local history", "error", remoteErr)
			server = nil
		}
	}

	return filter.Apply(Merge(server, local)), remoteErr
}

// Clear empties local history unconditionally, then tries the server. A
// server failure is returned wrapping ErrRemoteClearFailed after the local
// clear has already happened.
func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(); err != nil {
		s.logger.Warn("clearing local history failed", "error", err)
	}

	if s.remote == nil {
		return nil
	}
	if err := s.remote.ClearHistory(ctx); err != nil {
		s.logger.Warn("clearing server history failed", "error", err)
		return fmt.Errorf("%w: %w", ErrRemoteClearFailed, err)
	}
	return nil
}

// mirrorWindow is how far apart the server's and the client's records of one
// action may be stamped and still count as the same action.
const mirrorWindow = 5 * time.Second

// Merge combines server and local entries: unique by id (server first),
// most recent first, at most model.MaxHistoryEntries. The server and the
// client each record a check under their own id, so a local entry that
// mirrors an unclaimed server entry (same traits, stamped within
// mirrorWindow) is left out. Entries whose timestamps cannot be parsed sort
// last in their original order.
func Merge(server, local []model.HistoryEntry) []model.HistoryEntry {
	unique := make([]model.HistoryEntry, 0, len(server)+len(local))
	seen := make(map[string]bool, len(server)+len(local))
	for _, e := range server {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		unique = append(unique, e)
	}

	claimed := make([]bool, len(unique))
	fromServer := unique[:len(unique):len(unique)]
	for _, e := range local {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		if i := mirrorOf(e, fromServer, claimed); i >= 0 {
			claimed[i] = true
			continue
		}
		unique = append(unique, e)
	}

	slices.SortStableFunc(unique, func(a, b model.HistoryEntry) int {
		return b.Time().Compare(a.Time())
	})

	if len(unique) > model.MaxHistoryEntries {
		unique = unique[:model.MaxHistoryEntries]
	}
	return unique
}

// mirrorOf returns the index of the first unclaimed server entry recording
// the same action as e, or -1.
func mirrorOf(e model.HistoryEntry, server []model.HistoryEntry, claimed []bool) int {
	at := e.Time()
	if at.IsZero() {
		return -1
	}
	for i, s := range server {
		if claimed[i] || !sameTraits(e, s) {
			continue
		}
		st := s.Time()
		if st.IsZero() {
			continue
		}
		d := at.Sub(st)
		if d < 0 {
			d = -d
		}
		if d <= mirrorWindow {
			return i
		}
	}
	return -1
}

func sameTraits(a, b model.HistoryEntry) bool {
	return a.IsGenerated() == b.IsGenerated() &&
		a.Rating == b.Rating &&
		a.Length == b.Length &&
		a.HasUppercase == b.HasUppercase &&
		a.HasLowercase == b.HasLowercase &&
		a.HasNumbers == b.HasNumbers &&
		a.HasSymbols == b.HasSymbols &&
		a.IsCommon == b.IsCommon
}
