package layout

import (
	"encoding/binary"
	"fmt"
)

// nodeHeaderSize is the encoded size of the NodeHeader: three uint64
// fields (block type, entry count, self offset). All fields are
// uint64-width so the layout needs no platform-dependent padding
// reasoning to stay identical across create and open (spec.md §6).
const nodeHeaderSize = 24

// Node is an accessor bound to one node block: a header followed by a
// packed, unsorted array of (key, value) entries. It has no ownership
// over the backing slice and no lifetime beyond the call that obtained
// it from the block store.
type Node struct {
	block     []byte
	keySize   int
	valueSize int // 8 for inner nodes regardless of the configured value size
}

// New wraps an already block-store-resolved slice as a node accessor.
// It does not initialize the header; use InitBlock for a fresh block.
func New(block []byte, keySize, valueSize int) Node {
	return Node{block: block, keySize: keySize, valueSize: valueSize}
}

// InitBlock stamps a fresh header (block type, zero entries, self
// offset) into block, which must already be zeroed, and returns its
// Node accessor.
func InitBlock(block []byte, keySize, valueSize int, kind BlockType, selfOffset uint64) Node {
	n := Node{block: block, keySize: keySize, valueSize: valueSize}
	binary.LittleEndian.PutUint64(block[0:8], uint64(kind))
	binary.LittleEndian.PutUint64(block[8:16], 0)
	binary.LittleEndian.PutUint64(block[16:24], selfOffset)
	return n
}

func (n Node) pairSize() int { return n.keySize + n.valueSize }

// PeekBlockType reads a block's type without knowing its value size yet
// — callers need this to pick the right value size (8 for Inner,
// configured value_size for Leaf) before building a Node accessor.
func PeekBlockType(block []byte) BlockType {
	return BlockType(binary.LittleEndian.Uint64(block[0:8]))
}

// Capacity returns the maximum number of entries a block of this node's
// size can hold: M = floor((block_size - header) / (key_size + value_size)).
func (n Node) Capacity() int {
	return (len(n.block) - nodeHeaderSize) / n.pairSize()
}

// BlockType reports whether this node is a leaf or inner block.
func (n Node) BlockType() BlockType {
	return BlockType(binary.LittleEndian.Uint64(n.block[0:8]))
}

// IsLeaf reports whether this node is a leaf block.
func (n Node) IsLeaf() bool {
	return n.BlockType() == Leaf
}

// Count returns the number of live entries in the block.
func (n Node) Count() int {
	return int(binary.LittleEndian.Uint64(n.block[8:16]))
}

// SetCount overwrites the live entry count.
func (n Node) SetCount(count int) {
	binary.LittleEndian.PutUint64(n.block[8:16], uint64(count))
}

// InFileAddr returns the block offset this node was created at (I4).
func (n Node) InFileAddr() uint64 {
	return binary.LittleEndian.Uint64(n.block[16:24])
}

// IsFull reports whether the block holds as many entries as it has room for.
func (n Node) IsFull() bool {
	return n.Count() >= n.Capacity()
}

func (n Node) entryOffset(i int) int {
	return nodeHeaderSize + i*n.pairSize()
}

// KeyBytes returns a view of entry i's raw key bytes (0 <= i < Count()).
func (n Node) KeyBytes(i int) []byte {
	off := n.entryOffset(i)
	return n.block[off : off+n.keySize]
}

// ValueBytes returns a view of entry i's raw value bytes.
func (n Node) ValueBytes(i int) []byte {
	off := n.entryOffset(i) + n.keySize
	return n.block[off : off+n.valueSize]
}

// SetKeyBytes overwrites entry i's key bytes in place.
func (n Node) SetKeyBytes(i int, key []byte) {
	if len(key) != n.keySize {
		panic(fmt.Sprintf("layout: key size %d does not match node key size %d", len(key), n.keySize))
	}
	copy(n.KeyBytes(i), key)
}

// ChildOffset reads entry i's value as a little-endian uint64 child
// block offset. Only meaningful on inner nodes.
func (n Node) ChildOffset(i int) uint64 {
	return binary.LittleEndian.Uint64(n.ValueBytes(i))
}

// SetChildOffset writes entry i's value as a little-endian uint64 child
// block offset. Only meaningful on inner nodes.
func (n Node) SetChildOffset(i int, offset uint64) {
	binary.LittleEndian.PutUint64(n.ValueBytes(i), offset)
}

// Insert appends a new (key, value) entry. It does not sort and does
// not check for duplicates; it panics if the block is already full or
// the key/value sizes don't match this node's geometry, matching the
// original's assertion-on-programmer-error stance (spec.md §7).
func (n Node) Insert(key, value []byte) {
	if n.IsFull() {
		panic("layout: insert into full node")
	}
	if len(key) != n.keySize {
		panic(fmt.Sprintf("layout: key size %d does not match node key size %d", len(key), n.keySize))
	}
	if len(value) != n.valueSize {
		panic(fmt.Sprintf("layout: value size %d does not match node value size %d", len(value), n.valueSize))
	}
	i := n.Count()
	off := n.entryOffset(i)
	copy(n.block[off:off+n.keySize], key)
	copy(n.block[off+n.keySize:off+n.keySize+n.valueSize], value)
	n.SetCount(i + 1)
}

// Delete removes entry i, shifting every later entry left by one slot
// (I5: live entries stay contiguous and prefix-packed).
func (n Node) Delete(i int) {
	count := n.Count()
	if i < 0 || i >= count {
		panic("layout: delete index out of range")
	}
	pairSize := n.pairSize()
	dst := n.entryOffset(i)
	src := n.entryOffset(i + 1)
	moveLen := (count - i - 1) * pairSize
	if moveLen > 0 {
		copy(n.block[dst:dst+moveLen], n.block[src:src+moveLen])
	}
	n.SetCount(count - 1)
}

// Clear empties the node without touching its header's type or address.
func (n Node) Clear() {
	n.SetCount(0)
}
