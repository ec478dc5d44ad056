package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, blockSize uint64) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	require.NoError(t, err)
	s, err := Open(f, blockSize)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenInitializesOneBlock(t *testing.T) {
	s := openTemp(t, PageUnit)
	assert.GreaterOrEqual(t, s.Size(), int64(PageUnit))
}

func TestRejectsBadBlockSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	require.NoError(t, err)
	defer f.Close()

	_, err = Open(f, 100)
	assert.Error(t, err)
}

func TestTruncateGrowsAndZeroes(t *testing.T) {
	s := openTemp(t, PageUnit)
	before := s.Size()

	off := uint64(before)
	require.True(t, s.Truncate(int64(off)+PageUnit))

	block, err := s.GetBlock(off)
	require.NoError(t, err)
	for _, b := range block {
		assert.Equal(t, byte(0), b)
	}
}

func TestGetBlockRejectsUnalignedOffset(t *testing.T) {
	s := openTemp(t, PageUnit)
	_, err := s.GetBlock(1)
	assert.Error(t, err)
}

func TestGetBlockRejectsOutOfRange(t *testing.T) {
	s := openTemp(t, PageUnit)
	_, err := s.GetBlock(uint64(s.Size()) * 100)
	assert.Error(t, err)
}

func TestWritesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	require.NoError(t, err)

	s, err := Open(f, PageUnit)
	require.NoError(t, err)

	off := uint64(s.Size())
	require.True(t, s.Truncate(int64(off)+PageUnit))
	block, err := s.GetBlock(off)
	require.NoError(t, err)
	block[0] = 0x42
	require.NoError(t, s.Close())

	f2, err := os.OpenFile(path, os.O_RDWR, 0600)
	require.NoError(t, err)
	s2, err := Open(f2, PageUnit)
	require.NoError(t, err)
	defer s2.Close()

	block2, err := s2.GetBlock(off)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), block2[0])
}

func TestManyAllocationsGrowInFixedChunks(t *testing.T) {
	s := openTemp(t, PageUnit)
	var last uint64
	for i := 0; i < 64; i++ {
		last = uint64(s.Size())
		require.True(t, s.Truncate(int64(last)+PageUnit))
	}
	block, err := s.GetBlock(last)
	require.NoError(t, err)
	assert.Len(t, block, PageUnit)

	// Each grow asks for one block past the mapped end, so each adds
	// exactly one growthChunk: 1 initial chunk + 64 grows = 65 chunks —
	// growth is linear in calls, not exponential.
	assert.Equal(t, int64(65*growthChunk), s.Size())
}
