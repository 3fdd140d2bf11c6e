package service

import (
	"context"
	"errors"
	"time"

	"github.com/passguardian/passguardian-go/internal/model"
)

// ErrEmptyPassword is returned before any request when there is nothing to check.
var ErrEmptyPassword = errors.New("please enter a password")

// PasswordChecker is the remote scoring call.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, password string) (model.StrengthResult, error)
}

// Recorder keeps synthesized history entries.
type Recorder interface {
	Record(entry model.HistoryEntry)
}

// CheckerService handles password checks.
type CheckerService struct {
	api     PasswordChecker
	history Recorder
	now     func() time.Time
}

// NewCheckerService creates a new CheckerService.
func NewCheckerService(api PasswordChecker, history Recorder) *CheckerService {
	return &CheckerService{api: api, history: history, now: time.Now}
}

// Check scores password remotely and records the outcome. On failure nothing
// is recorded.
func (s *CheckerService) Check(ctx context.Context, password string) (model.StrengthResult, model.HistoryEntry, error) {
	if password == "" {
		return model.StrengthResult{}, model.HistoryEntry{}, ErrEmptyPassword
	}

	res, err := s.api.CheckPassword(ctx, password)
	if err != nil {
		return model.StrengthResult{}, model.HistoryEntry{}, err
	}

	entry := newHistoryEntry(password, res.Rating, res.Feedback, model.EntryChecked, s.now())
	s.history.Record(entry)
	return res, entry, nil
}
