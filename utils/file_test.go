package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644))
}

func TestScanLayoutsSortsNumerically(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "HA10.png")
	touch(t, dir, "HA2.png")
	touch(t, dir, "HA1.png")

	layouts, err := ScanLayouts(dir)
	require.NoError(t, err)

	ha := layouts["HAMMER_ANVIL"]
	require.Len(t, ha, 3)
	assert.Equal(t, []LayoutEntry{
		{N: 1, File: "HA1.png"},
		{N: 2, File: "HA2.png"},
		{N: 10, File: "HA10.png"},
	}, ha)
}

func TestScanLayoutsMatchesCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "dow1.PNG")
	touch(t, dir, "Dow2.png")

	layouts, err := ScanLayouts(dir)
	require.NoError(t, err)

	dow := layouts["DAWN_OF_WAR"]
	require.Len(t, dow, 2)
	assert.Equal(t, 1, dow[0].N)
	assert.Equal(t, 2, dow[1].N)
}

func TestScanLayoutsIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "SD1.png")
	// no number, wrong extension, unrelated, unknown prefix
	touch(t, dir, "SD.png")
	touch(t, dir, "SD1.jpg")
	touch(t, dir, "notes.txt")
	touch(t, dir, "XX3.png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "SD2.png"), 0o755))

	layouts, err := ScanLayouts(dir)
	require.NoError(t, err)

	sd := layouts["SEEK_DESTROY"]
	require.Len(t, sd, 1)
	assert.Equal(t, "SD1.png", sd[0].File)
}

func TestScanLayoutsAlwaysListsEveryScenario(t *testing.T) {
	layouts, err := ScanLayouts(t.TempDir())
	require.NoError(t, err)

	for _, scenario := range []string{
		"HAMMER_ANVIL", "SEEK_DESTROY", "CRUCIBLE_BATTLE",
		"TIPPING_POINTS", "DAWN_OF_WAR", "SWEEPING_ENGAGEMENT",
	} {
		entries, ok := layouts[scenario]
		require.True(t, ok, scenario)
		assert.Empty(t, entries)
	}

	// a missing directory behaves like an empty one
	layouts, err = ScanLayouts(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Len(t, layouts, 6)
}
