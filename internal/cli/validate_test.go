package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_ValidScript(t *testing.T) {
	out, err := execCLI(t, "validate", "testdata/kleene.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "OK   testdata/kleene.yaml")
}

func TestValidateCommand_InvalidScript(t *testing.T) {
	out, err := execCLI(t, "validate", "testdata/invalid.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL testdata/invalid.yaml")
	assert.Contains(t, out, "unbound reference")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := execCLI(t, "validate", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCommand_MixedFiles(t *testing.T) {
	out, err := execCLI(t, "validate", "testdata/kleene.yaml", "testdata/invalid.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "OK   testdata/kleene.yaml")
	assert.Contains(t, out, "FAIL testdata/invalid.yaml")
}

func TestValidateCommand_JSONOutput(t *testing.T) {
	out, err := execCLI(t, "--format", "json", "validate", "testdata/kleene.yaml")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	results := resp.Data.([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, true, first["valid"])
}

func TestValidateCommand_RequiresArgs(t *testing.T) {
	_, err := execCLI(t, "validate")
	require.Error(t, err)
}
