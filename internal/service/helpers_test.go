package service

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/passguardian/passguardian-go/internal/apiclient"
	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/repository"
	"github.com/passguardian/passguardian-go/internal/testutil/fakeapi"
)

type fixture struct {
	fake    *fakeapi.Server
	client  *apiclient.Client
	store   *repository.LocalStore
	history *HistoryService
	checker *CheckerService
	gen     *GeneratorService
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := fakeapi.New()
	ts := fake.Start(t)

	client, err := apiclient.New(apiclient.Options{BaseURL: ts.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	store := repository.NewLocalStore(filepath.Join(t.TempDir(), "history.json"))
	history := NewHistoryService(repository.NewHistoryRepository(store), client, log)

	return &fixture{
		fake:    fake,
		client:  client,
		store:   store,
		history: history,
		checker: NewCheckerService(client, history),
		gen:     NewGeneratorService(client, history),
		logs:    &logs,
	}
}

// storedBytes returns the raw local history file.
func (f *fixture) storedBytes(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(f.store.Path())
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(b)
}

type stubChecker struct {
	calls int
	res   model.StrengthResult
	err   error
}

func (s *stubChecker) CheckPassword(context.Context, string) (model.StrengthResult, error) {
	s.calls++
	return s.res, s.err
}

type stubGenerator struct {
	calls int
	resp  model.GenerateResponse
	err   error
}

func (s *stubGenerator) GeneratePassword(context.Context, model.GeneratorSettings) (model.GenerateResponse, error) {
	s.calls++
	return s.resp, s.err
}

type memRecorder struct {
	entries []model.HistoryEntry
}

func (m *memRecorder) Record(e model.HistoryEntry) {
	m.entries = append(m.entries, e)
}
