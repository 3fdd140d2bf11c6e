package service

import (
	"context"
	"time"

	"github.com/passguardian/passguardian-go/internal/model"
)

// PasswordGenerator is the remote generation call.
type PasswordGenerator interface {
	GeneratePassword(ctx context.Context, settings model.GeneratorSettings) (model.GenerateResponse, error)
}

// GeneratorService handles password generation requests.
type GeneratorService struct {
	api     PasswordGenerator
	history Recorder
	now     func() time.Time
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(api PasswordGenerator, history Recorder) *GeneratorService {
	return &GeneratorService{api: api, history: history, now: time.Now}
}

// Generate validates settings, asks the service for a password and records
// a generated entry. The returned password is the caller's to display; it
// is not stored anywhere.
func (s *GeneratorService) Generate(ctx context.Context, settings model.GeneratorSettings) (model.GenerateResponse, model.HistoryEntry, error) {
	if err := settings.Validate(); err != nil {
		return model.GenerateResponse{}, model.HistoryEntry{}, err
	}

	resp, err := s.api.GeneratePassword(ctx, settings)
	if err != nil {
		return model.GenerateResponse{}, model.HistoryEntry{}, err
	}
	if resp.Length == 0 {
		resp.Length = len([]rune(resp.Password))
	}

	entry := newHistoryEntry(resp.Password, resp.Rating, resp.Feedback, model.EntryGenerated, s.now())
	entry.Length = resp.Length
	s.history.Record(entry)
	return resp, entry, nil
}
