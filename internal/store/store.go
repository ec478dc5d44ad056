// Package store implements the block store: a file-backed, page-aligned
// byte arena that hands out stable views of fixed-size blocks addressed
// by absolute file offset, and that can be grown.
//
// The store is the external collaborator spec.md §4.2 describes; the
// tree engine never touches the file or the mapping directly. A view
// returned by GetBlock is only "stable" until the next call that may
// grow the mapping (Truncate; GetBlock itself never grows it and
// rejects offsets past the mapped size) — callers must never cache a
// view across such a call, and must
// re-resolve it by offset instead. See mmap_unix.go for why: growing the
// mapping may require unmapping and remapping the whole file.
//
// The store only knows about physical mapped bytes; it has no notion of
// which blocks are actually in use. Tracking the logical allocation
// watermark is the tree engine's job (IndexHeader.NextFreeAddr), the
// same split fredb draws between its MMap storage (mmapSize) and its
// PageManager (meta.NumPages).
package store

import (
	"fmt"
	"os"
)

// PageUnit is the page size every block size must be a multiple of.
const PageUnit = 4096

// growthChunk is the fixed size the mapping is rounded up to on every
// grow, matching fredb's mmap_unix.go ("round up to 1GB chunks to
// reduce remap frequency") — a bounded, linear cost per grow, not the
// unbounded doubling an earlier revision of this store used.
const growthChunk = 1 << 30 // 1 GiB

// Store is a growable, memory-mapped byte arena backing one index file.
type Store struct {
	file      *os.File
	blockSize uint64
	data      []byte // current mapping; nil if closed
	mapSize   int64
}

// Open maps the given file, growing it to at least one growthChunk if
// it is empty (reserving the virtual range up front, per spec.md §4.2).
// The file must already be open O_RDWR.
func Open(file *os.File, blockSize uint64) (*Store, error) {
	if blockSize == 0 || blockSize%PageUnit != 0 {
		return nil, fmt.Errorf("store: block size %d is not a positive multiple of %d", blockSize, PageUnit)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	s := &Store{file: file, blockSize: blockSize}

	size := info.Size()
	if size == 0 {
		size = roundUpChunk(int64(blockSize))
		if err := file.Truncate(size); err != nil {
			return nil, err
		}
	}

	if err := s.mapTo(size); err != nil {
		return nil, err
	}
	return s, nil
}

// Size returns the number of bytes currently backing the arena.
func (s *Store) Size() int64 {
	return s.mapSize
}

// Fd returns the underlying file descriptor, for validation only.
func (s *Store) Fd() uintptr {
	return s.file.Fd()
}

// GetBlock returns a stable view of the blockSize bytes at offset.
// offset must be a multiple of the store's block size. The view is
// backed by the current mapping; it must be re-resolved by calling
// GetBlock again after any Truncate.
func (s *Store) GetBlock(offset uint64) ([]byte, error) {
	if s.data == nil {
		return nil, fmt.Errorf("store: closed")
	}
	if offset%s.blockSize != 0 {
		return nil, fmt.Errorf("store: offset %d is not block-aligned", offset)
	}
	end := offset + s.blockSize
	if end > uint64(s.mapSize) {
		return nil, fmt.Errorf("store: offset %d beyond mapped size %d", offset, s.mapSize)
	}
	return s.data[offset:end], nil
}

// Truncate grows the arena so that it holds at least newSize bytes.
// Shrinking is not supported; newSize less than the current size is a
// no-op. New bytes are zero-initialized. Returns false on failure
// instead of an error, matching the block store's infallible-memory
// contract (callers abort on false, per spec.md §4.2/§7).
func (s *Store) Truncate(newSize int64) bool {
	if s.data == nil {
		return false
	}
	if newSize <= s.mapSize {
		return true
	}
	if err := s.mapTo(newSize); err != nil {
		return false
	}
	return true
}

// roundUpChunk rounds minSize up to the nearest multiple of growthChunk.
func roundUpChunk(minSize int64) int64 {
	return ((minSize + growthChunk - 1) / growthChunk) * growthChunk
}

// Close unmaps the arena and closes the backing file.
func (s *Store) Close() error {
	if err := s.unmap(); err != nil {
		return err
	}
	return s.file.Close()
}
