package rtree

import (
	"encoding/binary"
	"fmt"

	"github.com/Liyanhao1209/Disk-Resident-R-Tree/internal/layout"
)

// Insert adds a new (key, value) entry to the tree. It may allocate
// blocks (on node split) and may change the root (spec.md §4.5).
func (t *RTree[T]) Insert(key MBR[T], value []byte) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if key.Dims() != t.dimensions {
		return ErrDimensionMismatch
	}
	if len(value) != t.valueSize {
		return fmt.Errorf("rtree: value is %d bytes, index expects %d", len(value), t.valueSize)
	}

	if t.rootAddr() == layout.InvalidAddr {
		offset, n := t.allocateNode(layout.Leaf)
		t.appendEntry(n, key, value)
		t.setRootAddr(offset)
		return nil
	}

	path := t.chooseLeaf(key)
	t.adjustTree(path, key, value)
	return nil
}

// chooseLeaf descends from the root, at every inner node picking the
// entry requiring the least enlargement to cover key, ties broken by
// the smaller current area (spec.md §4.5 step 3). It returns the full
// root-to-leaf path as block offsets plus the chosen child index at
// each level (the leaf frame's index is unused).
func (t *RTree[T]) chooseLeaf(key MBR[T]) []pathEntry {
	var path []pathEntry
	offset := t.rootAddr()

	for {
		n := t.loadNode(offset)
		if n.IsLeaf() {
			path = append(path, pathEntry{offset: offset, childIndex: 0})
			return path
		}

		best := 0
		var bestEnlargement, bestArea T
		count := n.Count()
		if count == 0 {
			t.logger.Warn("choose leaf descended into empty inner node", "offset", offset)
		}
		for i := 0; i < count; i++ {
			entry := decodeMBR[T](n.KeyBytes(i), t.dimensions)
			enlargement := entry.Enlargement(key)
			area := entry.Area()
			if i == 0 || enlargement < bestEnlargement || (enlargement == bestEnlargement && area < bestArea) {
				best, bestEnlargement, bestArea = i, enlargement, area
			}
		}

		path = append(path, pathEntry{offset: offset, childIndex: best})
		offset = n.ChildOffset(best)
	}
}

// adjustTree is the split routine (spec.md §4.5 step 4): it inserts
// (key, value) into the leaf at the bottom of path, splitting and
// propagating new MBRs upward as far as needed, and growing a new root
// if the split reaches the top.
func (t *RTree[T]) adjustTree(path []pathEntry, key MBR[T], value []byte) {
	leafLevel := len(path) - 1
	leafOffset := path[leafLevel].offset
	leaf := t.loadNode(leafOffset)

	childOffset := leafOffset
	var childMBR MBR[T]
	hasNewSibling := false
	var newSiblingOffset uint64
	var newSiblingMBR MBR[T]

	if !leaf.IsFull() {
		t.appendEntry(leaf, key, value)
		childMBR = t.nodeMBR(leaf)
	} else {
		newSiblingOffset, newSiblingMBR, childMBR = t.splitLeaf(leaf, key, value)
		hasNewSibling = true
	}

	for level := leafLevel - 1; level >= 0; level-- {
		parentOffset := path[level].offset
		parentIdx := path[level].childIndex
		parent := t.loadNode(parentOffset)

		parent.SetKeyBytes(parentIdx, keyBuf(childMBR, t.keySize))

		if !hasNewSibling {
			childMBR = t.nodeMBR(parent)
			childOffset = parentOffset
			continue
		}

		if !parent.IsFull() {
			t.appendChildEntry(parent, newSiblingMBR, newSiblingOffset)
			hasNewSibling = false
			childMBR = t.nodeMBR(parent)
			childOffset = parentOffset
		} else {
			var keptMBR MBR[T]
			newSiblingOffset, newSiblingMBR, keptMBR = t.splitInner(parent, newSiblingMBR, newSiblingOffset)
			childMBR = keptMBR
			childOffset = parentOffset
		}
	}

	if hasNewSibling {
		rootOffset, root := t.allocateNode(layout.Inner)
		t.appendChildEntry(root, childMBR, childOffset)
		t.appendChildEntry(root, newSiblingMBR, newSiblingOffset)
		t.setRootAddr(rootOffset)
		t.logger.Info("grew new root", "offset", rootOffset)
	}
}

// splitCandidate is one (key, raw value) entry under consideration
// during a split — a decoded, owned copy so it survives the node being
// cleared and rewritten in place.
type splitCandidate[T Scalar] struct {
	mbr   MBR[T]
	value []byte
}

// splitLeaf splits a full leaf n, folding in the incoming (key, value),
// and returns the new sibling's offset and MBR plus the MBR of what's
// left behind in n.
func (t *RTree[T]) splitLeaf(n layout.Node, key MBR[T], value []byte) (siblingOffset uint64, siblingMBR, keptMBR MBR[T]) {
	incoming := splitCandidate[T]{mbr: key, value: append([]byte(nil), value...)}
	return t.splitBlock(n, layout.Leaf, incoming)
}

// splitInner splits a full inner node n, folding in the incoming
// (childMBR, childOffset) entry.
func (t *RTree[T]) splitInner(n layout.Node, childMBR MBR[T], childOffset uint64) (siblingOffset uint64, siblingMBR, keptMBR MBR[T]) {
	incoming := splitCandidate[T]{mbr: childMBR, value: encodeChildOffset(childOffset)}
	return t.splitBlock(n, layout.Inner, incoming)
}

// splitBlock implements the quadratic-cost PickSeeds plus linear
// distribution split (spec.md §4.5 "PickSeeds / distribution"). n's
// current entries plus incoming form the candidate pool; n is rewritten
// in place with P2 and a fresh sibling block is allocated for P1.
func (t *RTree[T]) splitBlock(n layout.Node, kind layout.BlockType, incoming splitCandidate[T]) (siblingOffset uint64, siblingMBR, keptMBR MBR[T]) {
	count := n.Count()
	candidates := make([]splitCandidate[T], 0, count+1)
	for i := 0; i < count; i++ {
		value := append([]byte(nil), n.ValueBytes(i)...)
		candidates = append(candidates, splitCandidate[T]{
			mbr:   decodeMBR[T](n.KeyBytes(i), t.dimensions),
			value: value,
		})
	}
	candidates = append(candidates, incoming)

	p1, p2 := pickSeedsAndDistribute(candidates)

	n.Clear()
	for _, c := range p2 {
		n.Insert(keyBuf(c.mbr, t.keySize), c.value)
	}
	keptMBR = unionAll(p2)
	keptAddr := n.InFileAddr()

	siblingOffset, sibling := t.allocateNode(kind)
	for _, c := range p1 {
		sibling.Insert(keyBuf(c.mbr, t.keySize), c.value)
	}
	siblingMBR = unionAll(p1)

	t.logger.Info("split block", "original", keptAddr, "sibling", siblingOffset)
	return siblingOffset, siblingMBR, keptMBR
}

// pickSeedsAndDistribute implements Guttman's quadratic split: the pair
// maximizing wastefulness seeds P1/P2, then every remaining candidate
// is assigned, one at a time, to whichever side it most prefers —
// "most prefers" meaning the candidate with the largest |Δ1-Δ2| goes
// first, breaking ties for which side by the smaller Δ (and ties
// between sides by preferring P1).
func pickSeedsAndDistribute[T Scalar](candidates []splitCandidate[T]) (p1, p2 []splitCandidate[T]) {
	n := len(candidates)

	bestI, bestJ := 0, 1
	bestWaste := wastefulness(candidates[0].mbr, candidates[1].mbr)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := wastefulness(candidates[i].mbr, candidates[j].mbr)
			if w > bestWaste {
				bestWaste, bestI, bestJ = w, i, j
			}
		}
	}

	assigned := make([]bool, n)
	assigned[bestI], assigned[bestJ] = true, true
	p1 = []splitCandidate[T]{candidates[bestI]}
	p2 = []splitCandidate[T]{candidates[bestJ]}
	mbr1, mbr2 := NewMBR(candidates[bestI].mbr.data), NewMBR(candidates[bestJ].mbr.data)

	for remaining := n - 2; remaining > 0; remaining-- {
		pickIdx := -1
		var pickDelta1, pickDelta2, pickDiff T
		first := true
		for i := 0; i < n; i++ {
			if assigned[i] {
				continue
			}
			d1 := mbr1.Enlargement(candidates[i].mbr)
			d2 := mbr2.Enlargement(candidates[i].mbr)
			diff := d1 - d2
			if diff < 0 {
				diff = -diff
			}
			if first || diff > pickDiff {
				first = false
				pickIdx, pickDelta1, pickDelta2, pickDiff = i, d1, d2, diff
			}
		}

		assigned[pickIdx] = true
		if pickDelta1 <= pickDelta2 {
			p1 = append(p1, candidates[pickIdx])
			mbr1.UnionInto(candidates[pickIdx].mbr)
		} else {
			p2 = append(p2, candidates[pickIdx])
			mbr2.UnionInto(candidates[pickIdx].mbr)
		}
	}

	return p1, p2
}

// wastefulness is PickSeeds' cost function: the area "wasted" by
// grouping a and b together, i.e. how much bigger their union is than
// the sum of their own areas. This is deliberately not MBR.Enlargement
// — spec.md §9 calls out that the original conflates the two and
// requires each call site to use its own classical formula.
func wastefulness[T Scalar](a, b MBR[T]) T {
	return a.Union(b).Area() - a.Area() - b.Area()
}

func unionAll[T Scalar](cs []splitCandidate[T]) MBR[T] {
	m := NewMBR(cs[0].mbr.data)
	for _, c := range cs[1:] {
		m.UnionInto(c.mbr)
	}
	return m
}

func (t *RTree[T]) appendEntry(n layout.Node, key MBR[T], value []byte) {
	n.Insert(keyBuf(key, t.keySize), value)
}

func (t *RTree[T]) appendChildEntry(n layout.Node, key MBR[T], childOffset uint64) {
	n.Insert(keyBuf(key, t.keySize), encodeChildOffset(childOffset))
}

func keyBuf[T Scalar](m MBR[T], keySize int) []byte {
	buf := make([]byte, keySize)
	encodeMBR(buf, m)
	return buf
}

func encodeChildOffset(offset uint64) []byte {
	buf := make([]byte, innerValueSize)
	binary.LittleEndian.PutUint64(buf, offset)
	return buf
}
