package rtree

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlockSize = 4096

func TestCreateRejectsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idx")

	tr, err := Create[float64](path, 2, 16, testBlockSize)
	require.NoError(t, err)
	require.NoError(t, tr.Close())

	_, err = Create[float64](path, 2, 16, testBlockSize)
	assert.ErrorIs(t, err, ErrFileExists)
}

func TestOpenRejectsMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Open[float64](filepath.Join(dir, "nope"), 2, 16, testBlockSize)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenRejectsGeometryMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idx")

	tr, err := Create[float64](path, 2, 16, testBlockSize)
	require.NoError(t, err)
	require.NoError(t, tr.Close())

	_, err = Open[float64](path, 3, 16, testBlockSize)
	assert.ErrorIs(t, err, ErrHeaderMismatch)

	_, err = Open[float64](path, 2, 32, testBlockSize)
	assert.ErrorIs(t, err, ErrHeaderMismatch)
}

func TestCreateRejectsBadBlockSize(t *testing.T) {
	dir := t.TempDir()
	_, err := Create[float64](filepath.Join(dir, "idx"), 2, 16, 100)
	assert.ErrorIs(t, err, ErrInvalidBlockSize)
}

func TestEmptyTreeHasNoRoot(t *testing.T) {
	dir := t.TempDir()
	tr, err := Create[float64](filepath.Join(dir, "idx"), 2, 16, testBlockSize)
	require.NoError(t, err)
	defer tr.Close()

	keys, values, err := tr.AllEntries()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Empty(t, values)

	found, err := tr.Delete(rect(0, 0, 1, 1))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReopenPreservesEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idx")

	tr, err := Create[float64](path, 2, 8, testBlockSize)
	require.NoError(t, err)
	require.NoError(t, tr.Insert(rect(0, 0, 1, 1), []byte("abcdefgh")))
	require.NoError(t, tr.Insert(rect(5, 5, 6, 6), []byte("12345678")))
	require.NoError(t, tr.Close())

	reopened, err := Open[float64](path, 2, 8, testBlockSize)
	require.NoError(t, err)
	defer reopened.Close()

	keys, values, err := reopened.AllEntries()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	require.Len(t, values, 2)
}
