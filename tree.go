// Package rtree implements a disk-resident, memory-mapped R-tree
// spatial index: a height-balanced multi-way tree of axis-aligned
// bounding rectangles, persisted in a single growing file of fixed-size
// blocks. See SPEC_FULL.md for the full design.
package rtree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Liyanhao1209/Disk-Resident-R-Tree/internal/layout"
	"github.com/Liyanhao1209/Disk-Resident-R-Tree/internal/store"
)

// innerValueSize is the fixed value width of an inner entry: a child
// block offset, regardless of the configured (leaf) value size
// (spec.md §9, "Dynamic value_size vs. inner u64").
const innerValueSize = 8

// RTree is a disk-resident R-tree index over MBR keys of scalar type T.
// It owns a single index file and is not safe for concurrent use from
// more than one goroutine (spec.md §5: single-threaded, synchronous).
type RTree[T Scalar] struct {
	store      *store.Store
	dimensions int
	keySize    int // 2*dimensions*sizeof(T)
	valueSize  int // configured leaf payload size
	blockSize  int
	logger     Logger
	closed     bool
}

// Create makes a new, empty index file at path. It fails if the file
// already exists or cannot be allocated to one block.
func Create[T Scalar](path string, dimensions, valueSize, blockSize int, opts ...Option) (*RTree[T], error) {
	if err := validateGeometry(dimensions, blockSize); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		return nil, ErrFileExists
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(file, uint64(blockSize))
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, err
	}

	keySize := 2 * dimensions * scalarSize[T]()
	header, err := st.GetBlock(0)
	if err != nil {
		st.Close()
		return nil, err
	}
	layout.EncodeIndexHeader(header, layout.IndexHeader{
		Dimensions:   uint64(dimensions),
		KeySize:      uint64(keySize),
		ValueSize:    uint64(valueSize),
		BlockSize:    uint64(blockSize),
		RootAddr:     layout.InvalidAddr,
		NextFreeAddr: uint64(blockSize), // block 0 is the header; blocks start after it
	})

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &RTree[T]{
		store:      st,
		dimensions: dimensions,
		keySize:    keySize,
		valueSize:  valueSize,
		blockSize:  blockSize,
		logger:     o.logger,
	}, nil
}

// CreateIn is a convenience wrapper over Create that joins dir and name,
// mirroring spec.md §6's "directory handle + filename" signature in
// idiomatic Go terms.
func CreateIn[T Scalar](dir, name string, dimensions, valueSize, blockSize int, opts ...Option) (*RTree[T], error) {
	return Create[T](filepath.Join(dir, name), dimensions, valueSize, blockSize, opts...)
}

// Open attaches to an existing index file. It fails if the file does
// not exist or its persisted geometry disagrees with the caller's.
func Open[T Scalar](path string, dimensions, valueSize, blockSize int, opts ...Option) (*RTree[T], error) {
	if err := validateGeometry(dimensions, blockSize); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, ErrFileNotFound
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(file, uint64(blockSize))
	if err != nil {
		file.Close()
		return nil, err
	}

	keySize := 2 * dimensions * scalarSize[T]()
	headerBlock, err := st.GetBlock(0)
	if err != nil {
		st.Close()
		return nil, err
	}
	h := layout.DecodeIndexHeader(headerBlock)
	if h.Dimensions != uint64(dimensions) ||
		h.KeySize != uint64(keySize) ||
		h.ValueSize != uint64(valueSize) ||
		h.BlockSize != uint64(blockSize) {
		st.Close()
		return nil, ErrHeaderMismatch
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &RTree[T]{
		store:      st,
		dimensions: dimensions,
		keySize:    keySize,
		valueSize:  valueSize,
		blockSize:  blockSize,
		logger:     o.logger,
	}, nil
}

// OpenIn mirrors CreateIn for Open.
func OpenIn[T Scalar](dir, name string, dimensions, valueSize, blockSize int, opts ...Option) (*RTree[T], error) {
	return Open[T](filepath.Join(dir, name), dimensions, valueSize, blockSize, opts...)
}

// Close flushes and releases the index file. Any further operation on
// t returns ErrClosed.
func (t *RTree[T]) Close() error {
	if t.closed {
		return ErrClosed
	}
	t.closed = true
	return t.store.Close()
}

// checkOpen returns ErrClosed once Close has been called, matching
// fredb's db.go closed-flag check at the top of every public operation.
func (t *RTree[T]) checkOpen() error {
	if t.closed {
		return ErrClosed
	}
	return nil
}

func validateGeometry(dimensions, blockSize int) error {
	if dimensions <= 0 {
		return fmt.Errorf("rtree: dimensions must be positive, got %d", dimensions)
	}
	if blockSize <= 0 || blockSize%store.PageUnit != 0 {
		return ErrInvalidBlockSize
	}
	return nil
}

// rootAddr returns the current root block offset, or layout.InvalidAddr
// if the tree is empty.
func (t *RTree[T]) rootAddr() uint64 {
	header, err := t.store.GetBlock(0)
	if err != nil {
		panic(fmt.Sprintf("rtree: failed to resolve header block: %v", err))
	}
	return layout.DecodeIndexHeader(header).RootAddr
}

// setRootAddr patches the header's root_addr field.
func (t *RTree[T]) setRootAddr(addr uint64) {
	header, err := t.store.GetBlock(0)
	if err != nil {
		panic(fmt.Sprintf("rtree: failed to resolve header block: %v", err))
	}
	layout.SetRootAddr(header, addr)
}

// nextFreeAddr returns the offset of the next block to be allocated —
// the engine's logical high-water mark, persisted in the header rather
// than derived from the store's physical mapped size (which may be
// pre-grown well ahead of it; see internal/store).
func (t *RTree[T]) nextFreeAddr() uint64 {
	header, err := t.store.GetBlock(0)
	if err != nil {
		panic(fmt.Sprintf("rtree: failed to resolve header block: %v", err))
	}
	return layout.DecodeIndexHeader(header).NextFreeAddr
}

// setNextFreeAddr patches the header's next_free_addr field.
func (t *RTree[T]) setNextFreeAddr(addr uint64) {
	header, err := t.store.GetBlock(0)
	if err != nil {
		panic(fmt.Sprintf("rtree: failed to resolve header block: %v", err))
	}
	layout.SetNextFreeAddr(header, addr)
}

// loadNode resolves the node accessor at offset, re-reading the block
// store every time rather than caching a handle — a prior allocation
// may have remapped the arena and invalidated any pointer obtained
// before it (spec.md §9).
func (t *RTree[T]) loadNode(offset uint64) layout.Node {
	block, err := t.store.GetBlock(offset)
	if err != nil {
		panic(fmt.Sprintf("rtree: failed to resolve block at offset %d: %v", offset, err))
	}
	kind := layout.PeekBlockType(block)
	vsize := t.valueSize
	if kind == layout.Inner {
		vsize = innerValueSize
	}
	return layout.New(block, t.keySize, vsize)
}

// allocateNode advances the engine's allocation watermark by one block,
// growing the store's mapping to cover it if needed, and stamps the new
// block as a node of kind. The watermark (not the store's physical
// mapped size) is what determines the new block's offset, since the
// store may have pre-grown its mapping well past it in fixed chunks.
func (t *RTree[T]) allocateNode(kind layout.BlockType) (uint64, layout.Node) {
	offset := t.nextFreeAddr()
	required := int64(offset) + int64(t.blockSize)
	if required > t.store.Size() && !t.store.Truncate(required) {
		panic("rtree: failed to grow arena for new block")
	}

	block, err := t.store.GetBlock(offset)
	if err != nil {
		panic(fmt.Sprintf("rtree: failed to resolve freshly allocated block at offset %d: %v", offset, err))
	}
	vsize := t.valueSize
	if kind == layout.Inner {
		vsize = innerValueSize
	}
	n := layout.InitBlock(block, t.keySize, vsize, kind, offset)
	t.setNextFreeAddr(offset + uint64(t.blockSize))
	t.logger.Info("allocated block", "offset", offset, "leaf", kind == layout.Leaf)
	return offset, n
}

// nodeMBR returns the union of every entry's key in node — the MBR the
// node's parent entry must hold (I2). A node left empty by a delete (no
// underflow condensation is performed, spec.md §5) has no meaningful
// MBR; it degenerates to a zero-volume box at the origin rather than
// panicking on a dimension mismatch against its siblings.
func (t *RTree[T]) nodeMBR(n layout.Node) MBR[T] {
	count := n.Count()
	if count == 0 {
		return NewMBR[T](make([]T, 2*t.dimensions))
	}
	mbr := decodeMBR[T](n.KeyBytes(0), t.dimensions)
	for i := 1; i < count; i++ {
		mbr.UnionInto(decodeMBR[T](n.KeyBytes(i), t.dimensions))
	}
	return mbr
}

// pathEntry records one step of a root-to-leaf descent: the block
// offset visited and the index of the entry chosen to descend into
// (unused for the leaf frame). Nodes are re-resolved by offset on
// every use, never cached across a call that may allocate (spec.md §9,
// "Path context").
type pathEntry struct {
	offset     uint64
	childIndex int
}
