package rtree

import "errors"

//goland:noinspection GoUnusedGlobalVariable
var (
	// ErrDimensionMismatch is returned when an MBR argument's dimensionality
	// does not match the index's configured dimensions.
	ErrDimensionMismatch = errors.New("rtree: dimensionality mismatch")

	// ErrInvalidBlockSize is returned by Create/Open when block_size is not
	// a positive multiple of the page unit (4096).
	ErrInvalidBlockSize = errors.New("rtree: block size must be a positive multiple of 4096")

	// ErrFileExists is returned by Create when the target file already exists.
	ErrFileExists = errors.New("rtree: index file already exists")

	// ErrFileNotFound is returned by Open when the target file does not exist.
	ErrFileNotFound = errors.New("rtree: index file does not exist")

	// ErrHeaderMismatch is returned by Open when the file's persisted
	// geometry (dimensions, key_size, value_size, block_size) disagrees
	// with what the caller asked to open it with.
	ErrHeaderMismatch = errors.New("rtree: index geometry does not match file header")

	// ErrClosed is returned by any operation on an index that has been closed.
	ErrClosed = errors.New("rtree: index is closed")
)
