package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmahdy/jofotara-api/internal/infrastructure/artifact"
)

func TestFSStore_SaveAndLoad(t *testing.T) {
	store, err := artifact.NewFSStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("INV-1001", "<Invoice/>")
	require.NoError(t, err)
	assert.Equal(t, "INV-1001_jofotara.xml", filepath.Base(path))

	data, err := store.Load("INV-1001")
	require.NoError(t, err)
	assert.Equal(t, "<Invoice/>", string(data))
}

func TestFSStore_RegenerationOverwrites(t *testing.T) {
	store, err := artifact.NewFSStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("INV-7", "<Invoice>v1</Invoice>")
	require.NoError(t, err)
	second, err := store.Save("INV-7", "<Invoice>v2</Invoice>")
	require.NoError(t, err)
	assert.Equal(t, first, second, "same invoice, same path")

	data, err := store.Load("INV-7")
	require.NoError(t, err)
	assert.Equal(t, "<Invoice>v2</Invoice>", string(data))
}

func TestFSStore_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "artifacts")
	_, err := artifact.NewFSStore(base)
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFSStore_RejectsUnsafeInvoiceNumbers(t *testing.T) {
	store, err := artifact.NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, bad := range []string{"", "   ", "../escape", "a/b", `a\b`} {
		_, err := store.Save(bad, "<Invoice/>")
		assert.Error(t, err, "invoice number %q", bad)
	}
}

func TestFSStore_LoadMissing(t *testing.T) {
	store, err := artifact.NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("INV-404")
	assert.Error(t, err)
}
