// Package layout implements the on-disk block formats described in
// spec.md §3/§6: the index file header, the node header, and the packed,
// unsorted entry array that follows it in every node block.
//
// Every accessor here is a thin view over a []byte obtained from
// internal/store — there is no copying on read beyond what an individual
// Key/Value call needs, and no ownership: a Header or Node borrows its
// backing slice for the duration of one call into the tree engine and
// must be re-resolved (via internal/store) on the next one, exactly as
// spec.md §9 requires for the path context.
package layout

import (
	"encoding/binary"
)

// BlockType identifies whether a node block holds leaf entries (user
// payloads) or inner entries (child block offsets).
type BlockType uint64

const (
	Leaf BlockType = iota
	Inner
)

// indexHeaderSize is the encoded size of IndexHeader: six uint64 fields.
const indexHeaderSize = 48

// IndexHeader is the file's block 0: the geometry the rest of the file
// was built with, the current root block offset, and the engine's
// allocation watermark. NextFreeAddr is the logical high-water mark of
// allocated blocks — distinct from the store's physical mapped size,
// which may be pre-grown well ahead of it in fixed chunks (spec.md
// §4.2's "reserve a large virtual range and grow the mapped tail").
type IndexHeader struct {
	Dimensions   uint64
	KeySize      uint64
	ValueSize    uint64
	BlockSize    uint64
	RootAddr     uint64
	NextFreeAddr uint64
}

// InvalidAddr is the sentinel root_addr value denoting an empty tree.
const InvalidAddr uint64 = 0

// EncodeIndexHeader writes h into the first indexHeaderSize bytes of
// block, which must be at least that long. The remainder of the block
// is left untouched (callers zero a fresh block before writing).
func EncodeIndexHeader(block []byte, h IndexHeader) {
	binary.LittleEndian.PutUint64(block[0:8], h.Dimensions)
	binary.LittleEndian.PutUint64(block[8:16], h.KeySize)
	binary.LittleEndian.PutUint64(block[16:24], h.ValueSize)
	binary.LittleEndian.PutUint64(block[24:32], h.BlockSize)
	binary.LittleEndian.PutUint64(block[32:40], h.RootAddr)
	binary.LittleEndian.PutUint64(block[40:48], h.NextFreeAddr)
}

// DecodeIndexHeader reads an IndexHeader out of block's first bytes.
func DecodeIndexHeader(block []byte) IndexHeader {
	return IndexHeader{
		Dimensions:   binary.LittleEndian.Uint64(block[0:8]),
		KeySize:      binary.LittleEndian.Uint64(block[8:16]),
		ValueSize:    binary.LittleEndian.Uint64(block[16:24]),
		BlockSize:    binary.LittleEndian.Uint64(block[24:32]),
		RootAddr:     binary.LittleEndian.Uint64(block[32:40]),
		NextFreeAddr: binary.LittleEndian.Uint64(block[40:48]),
	}
}

// SetRootAddr patches just the root_addr field of an already-encoded
// header block in place.
func SetRootAddr(block []byte, addr uint64) {
	binary.LittleEndian.PutUint64(block[32:40], addr)
}

// SetNextFreeAddr patches just the next_free_addr field in place.
func SetNextFreeAddr(block []byte, addr uint64) {
	binary.LittleEndian.PutUint64(block[40:48], addr)
}
