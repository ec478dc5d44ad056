//go:build linux || darwin

package store

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// mapTo grows the backing file to at least minSize, rounded up to a
// whole number of growthChunk-sized pieces, then remaps the whole file.
// The old mapping is unmapped first: any view handed out by GetBlock
// before this call is no longer valid and must be re-resolved by
// offset.
func (s *Store) mapTo(minSize int64) error {
	newSize := roundUpChunk(minSize)

	if s.data != nil {
		// Flush before tearing down the mapping so a crash mid-remap
		// cannot lose writes already made through the old view.
		_ = unix.Msync(s.data, unix.MS_ASYNC)
		if err := syscall.Munmap(s.data); err != nil {
			return err
		}
		s.data = nil
	}

	if err := s.file.Truncate(newSize); err != nil {
		return err
	}

	data, err := syscall.Mmap(int(s.file.Fd()), 0, int(newSize),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return err
	}

	s.data = data
	s.mapSize = newSize
	return nil
}

func (s *Store) unmap() error {
	if s.data == nil {
		return nil
	}
	if err := unix.Msync(s.data, unix.MS_SYNC); err != nil {
		return err
	}
	err := syscall.Munmap(s.data)
	s.data = nil
	return err
}
