package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execCLI runs the root command with args and returns stdout and the error.
func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand_TextOutput(t *testing.T) {
	out, err := execCLI(t, "run", "testdata/kleene.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "script kleene-star")
	assert.Contains(t, out, "2 canonical classes")
	assert.Contains(t, out, "all assertions passed")
}

func TestRunCommand_JSONOutput(t *testing.T) {
	out, err := execCLI(t, "--format", "json", "run", "testdata/kleene.yaml")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "kleene-star", data["script"])
	assert.Equal(t, float64(2), data["classes"])
	assert.Equal(t, true, data["passed"])
	assert.NotEmpty(t, data["fingerprint"])
}

func TestRunCommand_Dump(t *testing.T) {
	out, err := execCLI(t, "run", "--dump", "testdata/kleene.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "e-graph: 2 canonical classes")
	assert.Contains(t, out, "union-find:")
}

func TestRunCommand_FailingAssertions(t *testing.T) {
	out, err := execCLI(t, "run", "testdata/failing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL [equiv]")
}

func TestRunCommand_MissingScript(t *testing.T) {
	_, err := execCLI(t, "run", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_InvalidScript(t *testing.T) {
	_, err := execCLI(t, "run", "testdata/invalid.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_RecordsSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := execCLI(t, "--format", "json", "run", "--db", db, "testdata/kleene.yaml")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	token, _ := data["session"].(string)
	require.NotEmpty(t, token, "recording run should report its session token")

	// The recorded session must replay cleanly.
	replayOut, err := execCLI(t, "replay", "--db", db, "--session", token)
	require.NoError(t, err)
	assert.Contains(t, replayOut, "OK")
	assert.Contains(t, replayOut, token)
}
