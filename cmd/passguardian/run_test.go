package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/service"
	"github.com/passguardian/passguardian-go/internal/testutil/fakeapi"
	"github.com/passguardian/passguardian-go/internal/validation"
)

type cliEnv struct {
	fake        *fakeapi.Server
	historyFile string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	fake := fakeapi.New()
	ts := fake.Start(t)
	dir := t.TempDir()

	env := &cliEnv{fake: fake, historyFile: filepath.Join(dir, "history.json")}
	t.Setenv("API_URL", ts.URL)
	t.Setenv("HISTORY_FILE", env.historyFile)
	t.Setenv("LOG_FILE", filepath.Join(dir, "passguardian.log"))
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENV", "test")
	return env
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *cliEnv) storedHistory(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(e.historyFile)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(b)
}

func TestCheckCommand(t *testing.T) {
	env := newCLIEnv(t)
	env.fake.SetResult("Tr0ub4dor&3xyz", model.StrengthResult{
		Rating:   model.RatingStrong,
		Feedback: []string{"✓ Good length (12+ characters)", "✓ Contains numbers"},
	})

	out, _, err := env.run(t, "Tr0ub4dor&3xyz\n", "check")
	require.NoError(t, err)

	assert.Contains(t, out, "Password Strength: Strong")
	assert.Contains(t, out, "✓ Good length (12+ characters)")
	assert.Contains(t, out, "✓ Contains numbers")
	assert.Equal(t, 1, env.fake.Calls(fakeapi.PathCheck))

	stored := env.storedHistory(t)
	assert.Contains(t, stored, `"type": "checked"`)
	assert.NotContains(t, stored, "Tr0ub4dor&3xyz")
}

func TestCheckCommand_EmptyStdin(t *testing.T) {
	env := newCLIEnv(t)

	for _, stdin := range []string{"", "\n"} {
		_, _, err := env.run(t, stdin, "check")
		require.Error(t, err)
		assert.True(t, errors.Is(err, service.ErrEmptyPassword), "stdin %q", stdin)
	}
	assert.Equal(t, 0, env.fake.TotalCalls())
	assert.Empty(t, env.storedHistory(t))
}

func TestCheckCommand_BackendDown(t *testing.T) {
	env := newCLIEnv(t)
	env.fake.Fail(fakeapi.PathCheck, http.StatusInternalServerError)

	_, _, err := env.run(t, "whatever\n", "check")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to check password. Make sure the backend server is running."))
	assert.Empty(t, env.storedHistory(t))
}

func TestGenerateCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "", "generate", "--length", "20")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Len(t, lines[0], 20)
	assert.Equal(t, "20 characters", lines[1])
	assert.Equal(t, "Password Strength: Strong", lines[2])

	stored := env.storedHistory(t)
	assert.Contains(t, stored, `"type": "generated"`)
	assert.NotContains(t, stored, lines[0])
}

func TestGenerateCommand_LengthOutOfRange(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "", "generate", "-l", "40")
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrInvalid))
	assert.Equal(t, 0, env.fake.Calls(fakeapi.PathGenerate))
}

func TestHistoryCommand(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "Tr0ub4dor&3xyz\n", "check")
	require.NoError(t, err)

	out, _, err := env.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "checked")
	assert.Contains(t, out, "Medium")

	out, _, err = env.run(t, "", "history", "--filter", "strong")
	require.NoError(t, err)
	assert.Equal(t, "No history yet.\n", out)

	out, _, err = env.run(t, "", "history", "--json")
	require.NoError(t, err)
	var resp model.HistoryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.History, 1)
	assert.Equal(t, model.EntryChecked, resp.History[0].Type)
}

func TestHistoryCommand_RejectsUnknownFilter(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "", "history", "--filter", "excellent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown filter "excellent"`)
	assert.Equal(t, 0, env.fake.TotalCalls())
}

func TestHistoryCommand_ServerDown(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "some-password\n", "check")
	require.NoError(t, err)

	env.fake.Fail(fakeapi.PathHistory, http.StatusBadGateway)
	out, errOut, err := env.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Server history unavailable")
	assert.Contains(t, out, "checked")
}

func TestHistoryClearCommand(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "some-password\n", "check")
	require.NoError(t, err)
	require.NotEmpty(t, env.storedHistory(t))

	_, errOut, err := env.run(t, "n\n", "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Cancelled.")
	assert.Equal(t, 0, env.fake.Calls(fakeapi.PathClear))

	out, _, err := env.run(t, "y\n", "history", "clear")
	require.NoError(t, err)
	assert.Equal(t, "History cleared.\n", out)
	assert.Equal(t, 1, env.fake.Calls(fakeapi.PathClear))
	assert.NotContains(t, env.storedHistory(t), "checked")
}

func TestHistoryClearCommand_RemoteFailure(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "some-password\n", "check")
	require.NoError(t, err)
	env.fake.Fail(fakeapi.PathClear, http.StatusInternalServerError)

	out, errOut, err := env.run(t, "", "history", "clear", "--yes")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "History cleared locally; the server history could not be cleared.")
	assert.NotContains(t, env.storedHistory(t), "checked")
}

func TestSessionCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "", "session")
	require.NoError(t, err)
	assert.Contains(t, out, "health:  OK PassGuardian API is running")
	assert.Contains(t, out, `"session_id"`)
}

func TestSessionCommand_BackendDown(t *testing.T) {
	env := newCLIEnv(t)
	env.fake.Fail(fakeapi.PathHealth, http.StatusServiceUnavailable)

	_, _, err := env.run(t, "", "session")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Backend unreachable."))
}
