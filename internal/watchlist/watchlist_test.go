package watchlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "symbols:\n  - AAPL\n  - msft\n  - \" nvda \"\n")

	wl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, wl.Symbols)
}

func TestLoadDeduplicates(t *testing.T) {
	path := writeFile(t, "symbols: [AAPL, aapl, MSFT, AAPL]\n")

	wl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, wl.Symbols)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := writeFile(t, "symbols: {not: a list}\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmpty(t *testing.T) {
	path := writeFile(t, "symbols: []\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no symbols")
}
