package files

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"request-tracker/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := New(log, t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSaveAndOpen(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.Save("evaluation report.pdf", strings.NewReader("findings"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(stored, "-evaluation_report.pdf"), "stored name %q", stored)
	assert.NotEqual(t, "-evaluation_report.pdf", stored, "timestamp prefix missing")

	f, err := store.Open(stored)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "findings", string(data))
}

func TestSaveRejectsUnsupportedTypes(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"payload.exe", "notes.txt", "archive.zip", "noext"} {
		_, err := store.Save(name, strings.NewReader("x"))
		assert.ErrorIs(t, err, core.ErrUnsupportedFileType, "name %q", name)
	}

	for _, name := range []string{"a.pdf", "b.png", "c.jpg", "d.jpeg", "e.gif", "f.PDF"} {
		_, err := store.Save(name, strings.NewReader("x"))
		assert.NoError(t, err, "name %q", name)
	}
}

func TestOpenMissingFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open("1700000000000-gone.pdf")
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "secret.pdf")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o600))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := New(log, filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	_, err = store.Open("../secret.pdf")
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}
