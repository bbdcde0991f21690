package browse

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiresSelection(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	err := Run([]string{"--db", dbPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of --id, --latest, or --result is required")
}

func TestRunLatestWithEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	err := Run([]string{"--db", dbPath, "--latest"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no analyses stored yet")
}

func TestRunMissingResultFile(t *testing.T) {
	err := Run([]string{"--result", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid result path")
}
