package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshBlock(size int) []byte {
	return make([]byte, size)
}

func TestInitBlockAndCapacity(t *testing.T) {
	block := freshBlock(4096)
	n := InitBlock(block, 32, 8, Leaf, 4096)

	assert.True(t, n.IsLeaf())
	assert.Equal(t, 0, n.Count())
	assert.Equal(t, uint64(4096), n.InFileAddr())
	assert.Equal(t, (4096-24)/(32+8), n.Capacity())
}

func TestInsertAndReadBack(t *testing.T) {
	block := freshBlock(4096)
	n := InitBlock(block, 16, 8, Leaf, 0)

	key := make([]byte, 16)
	key[0] = 1
	val := make([]byte, 8)
	val[0] = 2

	n.Insert(key, val)
	require.Equal(t, 1, n.Count())
	assert.Equal(t, key, n.KeyBytes(0))
	assert.Equal(t, val, n.ValueBytes(0))
}

func TestInsertPanicsWhenFull(t *testing.T) {
	block := freshBlock(nodeHeaderSize + 2*(8+8))
	n := InitBlock(block, 8, 8, Leaf, 0)

	key := make([]byte, 8)
	val := make([]byte, 8)
	n.Insert(key, val)
	n.Insert(key, val)
	assert.True(t, n.IsFull())

	assert.Panics(t, func() { n.Insert(key, val) })
}

func TestDeleteShiftsEntriesLeft(t *testing.T) {
	block := freshBlock(4096)
	n := InitBlock(block, 8, 8, Leaf, 0)

	for i := 0; i < 3; i++ {
		key := make([]byte, 8)
		key[0] = byte(i)
		val := make([]byte, 8)
		n.Insert(key, val)
	}

	n.Delete(0)
	require.Equal(t, 2, n.Count())
	assert.Equal(t, byte(1), n.KeyBytes(0)[0])
	assert.Equal(t, byte(2), n.KeyBytes(1)[0])
}

func TestChildOffsetRoundTrip(t *testing.T) {
	block := freshBlock(4096)
	n := InitBlock(block, 16, 8, Inner, 0)

	key := make([]byte, 16)
	n.Insert(key, make([]byte, 8))
	n.SetChildOffset(0, 0xdeadbeef)
	assert.Equal(t, uint64(0xdeadbeef), n.ChildOffset(0))
}

func TestSetKeyBytesOverwritesInPlace(t *testing.T) {
	block := freshBlock(4096)
	n := InitBlock(block, 8, 8, Leaf, 0)
	n.Insert(make([]byte, 8), make([]byte, 8))

	newKey := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	n.SetKeyBytes(0, newKey)
	assert.Equal(t, newKey, n.KeyBytes(0))
}

func TestClearResetsCountOnly(t *testing.T) {
	block := freshBlock(4096)
	n := InitBlock(block, 8, 8, Leaf, 1024)
	n.Insert(make([]byte, 8), make([]byte, 8))
	n.Clear()
	assert.Equal(t, 0, n.Count())
	assert.Equal(t, uint64(1024), n.InFileAddr())
}
