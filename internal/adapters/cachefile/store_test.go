package cachefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/droverbuild/drover/internal/adapters/cachefile"
	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".drover", "stamps.json")
	store := cachefile.NewStore(path)

	stamps := domain.StampMap{
		"libcore.a": {"core.c": "0011223344556677", "core.h": "8899aabbccddeeff"},
		"app":       {"libcore.a": "aaaaaaaaaaaaaaaa"},
	}
	require.NoError(t, store.Save(stamps))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, stamps, loaded)
}

func TestStore_Load_Missing(t *testing.T) {
	store := cachefile.NewStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_Load_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stamps.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := cachefile.NewStore(path).Load()
	require.Error(t, err)
}

func TestStore_Save_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deeply", "nested", "stamps.json")
	store := cachefile.NewStore(path)

	require.NoError(t, store.Save(domain.StampMap{}))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
