package rtree

import "github.com/Liyanhao1209/Disk-Resident-R-Tree/internal/layout"

// SearchMode selects which leaf predicate Search applies — overlap or
// full containment (spec.md §4.4).
type SearchMode int

const (
	// Overlap reports every entry whose MBR shares at least one point
	// with the query box.
	Overlap SearchMode = iota
	// Comprise reports every entry whose MBR is fully contained in the
	// query box (query ⊇ entry, not the other way around).
	Comprise
)

// Search walks the tree collecting every leaf value matching mode
// against q, passing each to visit. Traversal stops early if visit
// returns false. Inner-node pruning always uses overlap regardless of
// mode — pruning by containment in Comprise mode would wrongly skip
// subtrees whose bounding box straddles q but still holds entries fully
// inside it (spec.md §9, resolving the original's ambiguous reuse of a
// single comparison for both roles).
func (t *RTree[T]) Search(q MBR[T], mode SearchMode, visit func(key MBR[T], value []byte) bool) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if q.Dims() != t.dimensions {
		return ErrDimensionMismatch
	}
	if t.rootAddr() == layout.InvalidAddr {
		return nil
	}
	t.searchAt(t.rootAddr(), q, mode, visit)
	return nil
}

// searchAt returns false once visit has asked to stop, so the caller
// can unwind the recursion without visiting further subtrees.
func (t *RTree[T]) searchAt(offset uint64, q MBR[T], mode SearchMode, visit func(MBR[T], []byte) bool) bool {
	n := t.loadNode(offset)

	if n.IsLeaf() {
		for i := 0; i < n.Count(); i++ {
			entry := decodeMBR[T](n.KeyBytes(i), t.dimensions)
			var matches bool
			switch mode {
			case Comprise:
				matches = q.Comprises(entry)
			default:
				matches = q.Overlaps(entry)
			}
			if !matches {
				continue
			}
			value := append([]byte(nil), n.ValueBytes(i)...)
			if !visit(entry, value) {
				return false
			}
		}
		return true
	}

	for i := 0; i < n.Count(); i++ {
		entry := decodeMBR[T](n.KeyBytes(i), t.dimensions)
		if !entry.Overlaps(q) {
			continue
		}
		if !t.searchAt(n.ChildOffset(i), q, mode, visit) {
			return false
		}
	}
	return true
}

// AllEntries returns every (key, value) pair in the tree, leaf order.
// Unlike Search, it walks unconditionally rather than needing a query
// box wide enough to dominate every entry's coordinate range.
func (t *RTree[T]) AllEntries() ([]MBR[T], [][]byte, error) {
	if err := t.checkOpen(); err != nil {
		return nil, nil, err
	}
	var keys []MBR[T]
	var values [][]byte
	if t.rootAddr() == layout.InvalidAddr {
		return keys, values, nil
	}
	t.walkAll(t.rootAddr(), &keys, &values)
	return keys, values, nil
}

func (t *RTree[T]) walkAll(offset uint64, keys *[]MBR[T], values *[][]byte) {
	n := t.loadNode(offset)
	if n.IsLeaf() {
		for i := 0; i < n.Count(); i++ {
			*keys = append(*keys, decodeMBR[T](n.KeyBytes(i), t.dimensions))
			*values = append(*values, append([]byte(nil), n.ValueBytes(i)...))
		}
		return
	}
	for i := 0; i < n.Count(); i++ {
		t.walkAll(n.ChildOffset(i), keys, values)
	}
}
