package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/repository"
	"github.com/passguardian/passguardian-go/internal/testutil/fakeapi"
)

func at(id string, minutes int, rating model.Rating) model.HistoryEntry {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
	return model.HistoryEntry{
		ID:        id,
		Timestamp: ts.Format(model.TimestampLayout),
		Rating:    rating,
		Type:      model.EntryChecked,
	}
}

func TestMerge(t *testing.T) {
	server := []model.HistoryEntry{at("s1", 5, model.RatingWeak), at("shared", 3, model.RatingStrong)}
	local := []model.HistoryEntry{at("l1", 4, model.RatingMedium), at("shared", 3, model.RatingWeak)}

	merged := Merge(server, local)

	require.Len(t, merged, 3)
	assert.Equal(t, []string{"s1", "l1", "shared"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
	assert.Equal(t, model.RatingStrong, merged[2].Rating, "server copy wins")
}

func TestMerge_CapsAtTwenty(t *testing.T) {
	var server, local []model.HistoryEntry
	for i := 0; i < 15; i++ {
		server = append(server, at(fmt.Sprintf("s%d", i), i*2, model.RatingWeak))
		local = append(local, at(fmt.Sprintf("l%d", i), i*2+1, model.RatingWeak))
	}

	merged := Merge(server, local)

	require.Len(t, merged, model.MaxHistoryEntries)
	assert.Equal(t, "l14", merged[0].ID)
	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].Time().After(merged[i-1].Time()), "not most recent first at %d", i)
	}
}

func TestMerge_UnparseableTimestampsSortLast(t *testing.T) {
	bad := model.HistoryEntry{ID: "bad", Timestamp: "?"}
	merged := Merge([]model.HistoryEntry{bad}, []model.HistoryEntry{at("good", 0, model.RatingWeak)})
	require.Len(t, merged, 2)
	assert.Equal(t, "good", merged[0].ID)
}

func TestMerge_DropsLocalMirrorOfServerEntry(t *testing.T) {
	srv := at("srv-1", 0, model.RatingStrong)
	srv.Length, srv.HasLowercase = 14, true
	mirror := srv
	mirror.ID = "local-1"
	mirror.Timestamp = srv.Time().Add(40 * time.Millisecond).Format(model.TimestampLayout)

	merged := Merge([]model.HistoryEntry{srv}, []model.HistoryEntry{mirror})

	require.Len(t, merged, 1)
	assert.Equal(t, "srv-1", merged[0].ID)
}

func TestMerge_KeepsLocalEntriesWithoutServerTwin(t *testing.T) {
	srv := at("srv-1", 0, model.RatingStrong)
	srv.Length = 14

	otherTraits := srv
	otherTraits.ID, otherTraits.Length = "local-1", 9

	later := srv
	later.ID = "local-2"
	later.Timestamp = srv.Time().Add(time.Minute).Format(model.TimestampLayout)

	generated := srv
	generated.ID, generated.Type, generated.Generated = "local-3", model.EntryGenerated, true

	merged := Merge([]model.HistoryEntry{srv}, []model.HistoryEntry{otherTraits, later, generated})
	assert.Len(t, merged, 4)
}

func TestMerge_ServerEntryAbsorbsOneLocalEntry(t *testing.T) {
	srv := at("srv-1", 0, model.RatingWeak)
	first := srv
	first.ID = "local-1"
	second := srv
	second.ID = "local-2"

	merged := Merge([]model.HistoryEntry{srv}, []model.HistoryEntry{first, second})

	require.Len(t, merged, 2)
	ids := []string{merged[0].ID, merged[1].ID}
	assert.Contains(t, ids, "srv-1")
	assert.Contains(t, ids, "local-2")
}

func TestHistory_ListMergesServerAndLocal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.checker.Check(ctx, "one-password")
	require.NoError(t, err)
	_, _, err = f.gen.Generate(ctx, model.DefaultGeneratorSettings())
	require.NoError(t, err)

	entries, remoteErr := f.history.List(ctx, model.FilterAll)
	require.NoError(t, remoteErr)
	// The server recorded both actions too; its copies stand in for the local ones.
	require.Len(t, entries, 2)
	assert.Len(t, f.history.Local(), 2)
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.ID, "srv-"), e.ID)
	}
	assert.True(t, entries[0].IsGenerated())
}

func TestHistory_ListFallsBackToLocal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.checker.Check(ctx, "one-password")
	require.NoError(t, err)

	f.fake.Fail(fakeapi.PathHistory, http.StatusBadGateway)
	entries, remoteErr := f.history.List(ctx, model.FilterAll)

	assert.Error(t, remoteErr)
	require.Len(t, entries, 1)
	assert.Equal(t, model.EntryChecked, entries[0].Type)
	assert.Contains(t, f.logs.String(), "using local history")
}

func TestHistory_ListFilter(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed(at("s-weak", 1, model.RatingWeak), at("s-strong", 2, model.RatingStrong))
	f.history.Record(at("l-strong", 3, model.RatingStrong))
	f.history.Record(at("l-medium", 4, model.RatingMedium))

	entries, err := f.history.List(context.Background(), model.FilterByRating(model.RatingStrong))
	require.NoError(t, err)

	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, model.RatingStrong, e.Rating)
	}
}

func TestHistory_RepeatedActionsStayCappedAndUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, _, err := f.checker.Check(ctx, fmt.Sprintf("password-%d", i))
		require.NoError(t, err)
		_, _, err = f.gen.Generate(ctx, model.DefaultGeneratorSettings())
		require.NoError(t, err)
	}

	entries, err := f.history.List(ctx, model.FilterAll)
	require.NoError(t, err)
	require.Len(t, entries, model.MaxHistoryEntries)

	seen := map[string]bool{}
	for i, e := range entries {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
		if i > 0 {
			assert.False(t, e.Time().After(entries[i-1].Time()))
		}
	}
}

func TestHistory_ClearSurvivesRemoteFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.checker.Check(ctx, "one-password")
	require.NoError(t, err)

	f.fake.Fail(fakeapi.PathClear, http.StatusInternalServerError)
	err = f.history.Clear(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteClearFailed))
	assert.Empty(t, f.history.Local())
}

func TestHistory_ClearBoth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.checker.Check(ctx, "one-password")
	require.NoError(t, err)

	require.NoError(t, f.history.Clear(ctx))

	entries, err := f.history.List(ctx, model.FilterAll)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 1, f.fake.Calls(fakeapi.PathClear))
}

func TestHistory_LocalOnly(t *testing.T) {
	store := repository.NewLocalStore(filepath.Join(t.TempDir(), "h.json"))
	svc := NewHistoryService(repository.NewHistoryRepository(store), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	svc.Record(at("a", 0, model.RatingWeak))
	entries, err := svc.List(context.Background(), model.FilterAll)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, svc.Clear(context.Background()))
	assert.Empty(t, svc.Local())
}

// blockStore points the fixture's local store below a regular file, so every
// read and write of it fails.
func blockStore(t *testing.T, f *fixture) {
	t.Helper()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	log := slog.New(slog.NewTextHandler(f.logs, nil))
	f.store = repository.NewLocalStore(filepath.Join(blocker, "history.json"))
	f.history = NewHistoryService(repository.NewHistoryRepository(f.store), f.client, log)
	f.checker = NewCheckerService(f.client, f.history)
	f.gen = NewGeneratorService(f.client, f.history)
}

func TestHistory_StorageFailureDoesNotInterruptCheck(t *testing.T) {
	f := newFixture(t)
	blockStore(t, f)

	res, entry, err := f.checker.Check(context.Background(), "one-password")
	require.NoError(t, err)
	assert.Equal(t, model.RatingMedium, res.Rating)
	assert.NotEmpty(t, entry.ID)
	assert.Contains(t, f.logs.String(), "recording history entry failed")
	assert.Empty(t, f.history.Local())
}

func TestHistory_StorageFailureDoesNotInterruptGenerate(t *testing.T) {
	f := newFixture(t)
	blockStore(t, f)

	resp, _, err := f.gen.Generate(context.Background(), model.DefaultGeneratorSettings())
	require.NoError(t, err)
	assert.Len(t, resp.Password, model.DefaultGenerateLength)
	assert.Contains(t, f.logs.String(), "recording history entry failed")
}

func TestHistory_StorageFailureDoesNotInterruptClear(t *testing.T) {
	f := newFixture(t)
	blockStore(t, f)

	require.NoError(t, f.history.Clear(context.Background()))
	assert.Contains(t, f.logs.String(), "clearing local history failed")
	assert.Equal(t, 1, f.fake.Calls(fakeapi.PathClear), "server clear still attempted")
}

func TestHistory_StorageFailureListsServerHistory(t *testing.T) {
	f := newFixture(t)
	f.fake.Seed(at("s1", 1, model.RatingWeak))
	blockStore(t, f)

	entries, remoteErr := f.history.List(context.Background(), model.FilterAll)
	require.NoError(t, remoteErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "s1", entries[0].ID)
	assert.Contains(t, f.logs.String(), "reading local history failed")
}
