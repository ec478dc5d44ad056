package rtree

import (
	"bytes"

	"github.com/Liyanhao1209/Disk-Resident-R-Tree/internal/layout"
)

// Delete removes the entry whose MBR exactly equals key. It returns
// true if such an entry existed, false otherwise — a logical miss, not
// an error (spec.md §7). No underflow condensation is performed: a leaf
// emptied by a delete stays allocated and reachable from its parent.
func (t *RTree[T]) Delete(key MBR[T]) (bool, error) {
	if err := t.checkOpen(); err != nil {
		return false, err
	}
	if key.Dims() != t.dimensions {
		return false, ErrDimensionMismatch
	}
	if t.rootAddr() == layout.InvalidAddr {
		return false, nil
	}

	path, found := t.findLeaf(key)
	if !found {
		return false, nil
	}

	leafFrame := path[len(path)-1]
	leaf := t.loadNode(leafFrame.offset)
	leaf.Delete(leafFrame.childIndex)
	t.logger.Info("deleted entry", "leaf", leafFrame.offset)

	t.fixupParentMBRs(path)
	return true, nil
}

// findLeaf descends from the root, at each inner node trying every
// child whose MBR overlaps key (spec.md §4.6 and §9 — the original's
// "e.key >= k" pruning is wrong and corrected here to overlap), and
// backtracks to the next sibling when a subtree turns out not to
// contain a matching entry. It returns the full path to the first leaf
// entry exactly equal to key.
func (t *RTree[T]) findLeaf(key MBR[T]) ([]pathEntry, bool) {
	return t.findLeafAt(t.rootAddr(), key, nil)
}

func (t *RTree[T]) findLeafAt(offset uint64, key MBR[T], prefix []pathEntry) ([]pathEntry, bool) {
	n := t.loadNode(offset)

	if n.IsLeaf() {
		for i := 0; i < n.Count(); i++ {
			candidate := decodeMBR[T](n.KeyBytes(i), t.dimensions)
			if candidate.Equals(key) {
				return appendFrame(prefix, offset, i), true
			}
		}
		return nil, false
	}

	for i := 0; i < n.Count(); i++ {
		entry := decodeMBR[T](n.KeyBytes(i), t.dimensions)
		if !entry.Overlaps(key) {
			continue
		}
		childOffset := n.ChildOffset(i)
		if path, ok := t.findLeafAt(childOffset, key, appendFrame(prefix, offset, i)); ok {
			return path, true
		}
	}
	return nil, false
}

func appendFrame(prefix []pathEntry, offset uint64, childIndex int) []pathEntry {
	out := make([]pathEntry, len(prefix), len(prefix)+1)
	copy(out, prefix)
	return append(out, pathEntry{offset: offset, childIndex: childIndex})
}

// fixupParentMBRs walks path upward (excluding the leaf frame, which
// has already been mutated) recomputing each ancestor's stored MBR for
// the child beneath it, stopping as soon as an ancestor's MBR turns out
// unchanged (spec.md §4.6 step 4).
func (t *RTree[T]) fixupParentMBRs(path []pathEntry) {
	for level := len(path) - 2; level >= 0; level-- {
		parent := t.loadNode(path[level].offset)
		parentIdx := path[level].childIndex
		child := t.loadNode(path[level+1].offset)

		oldKey := append([]byte(nil), parent.KeyBytes(parentIdx)...)
		newKey := keyBuf(t.nodeMBR(child), t.keySize)
		if bytes.Equal(oldKey, newKey) {
			return
		}
		parent.SetKeyBytes(parentIdx, newKey)
	}
}
