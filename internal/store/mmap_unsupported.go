//go:build !linux && !darwin

package store

// On platforms without an mmap syscall wrapper in golang.org/x/sys/unix,
// the arena falls back to plain read/write at offsets. Callers see no
// difference: GetBlock still returns a []byte view, it is just backed by
// a local buffer kept in sync with the file instead of a mapping.
func (s *Store) mapTo(minSize int64) error {
	newSize := roundUpChunk(minSize)

	if err := s.file.Truncate(newSize); err != nil {
		return err
	}

	buf := make([]byte, newSize)
	if s.data != nil {
		copy(buf, s.data)
	} else if _, err := s.file.ReadAt(buf, 0); err != nil && err.Error() != "EOF" {
		// Ignore a short/EOF read on a freshly-truncated sparse file.
	}

	s.data = buf
	s.mapSize = newSize
	return s.flush()
}

func (s *Store) flush() error {
	if s.data == nil {
		return nil
	}
	_, err := s.file.WriteAt(s.data, 0)
	return err
}

func (s *Store) unmap() error {
	if s.data == nil {
		return nil
	}
	err := s.flush()
	s.data = nil
	return err
}
