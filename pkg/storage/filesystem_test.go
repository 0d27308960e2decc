package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageResolvesUnderBaseDir(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := store.Path("PSA_BIRTH_abc123_birth.pdf")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(store.baseDir, "PSA_BIRTH_abc123_birth.pdf"), path)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{
		"../secrets.env",
		"..",
		"../../etc/passwd",
		"docs/../../escape.pdf",
	} {
		_, err := store.Path(name)
		require.Error(t, err, "expected %q to be refused", name)
	}
}

func TestLocalStorageRejectsAbsolutePath(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	abs := filepath.Join(t.TempDir(), "outside.pdf")
	_, err = store.Path(abs)
	require.Error(t, err)

	err = store.Delete(abs)
	require.Error(t, err)

	_, err = store.SaveStream(abs, strings.NewReader("data"))
	require.Error(t, err)
}

func TestDocumentFilenameSanitizesOriginal(t *testing.T) {
	name := DocumentFilename("PSA_BIRTH", "birth certificate copy.pdf")
	require.True(t, strings.HasPrefix(name, "PSA_BIRTH_"))
	require.True(t, strings.HasSuffix(name, "_birth_certificate_copy.pdf"))
	require.NotContains(t, name, " ")
}
