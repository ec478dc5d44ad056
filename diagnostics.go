package rtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/Liyanhao1209/Disk-Resident-R-Tree/internal/layout"
)

// PrintTree writes a human-readable, indented dump of the tree to w —
// one line per node giving its block offset, kind, entry count, and
// MBR, with children nested beneath their parent. Intended for manual
// inspection and debugging, not machine parsing.
func (t *RTree[T]) PrintTree(w io.Writer) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	root := t.rootAddr()
	if root == layout.InvalidAddr {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	return t.printNode(w, root, 0)
}

func (t *RTree[T]) printNode(w io.Writer, offset uint64, depth int) error {
	n := t.loadNode(offset)
	indent := strings.Repeat("  ", depth)
	kind := "leaf"
	if !n.IsLeaf() {
		kind = "inner"
	}

	if _, err := fmt.Fprintf(w, "%s[%s @%d] entries=%d mbr=%s\n",
		indent, kind, offset, n.Count(), t.nodeMBR(n)); err != nil {
		return err
	}

	if n.IsLeaf() {
		for i := 0; i < n.Count(); i++ {
			entry := decodeMBR[T](n.KeyBytes(i), t.dimensions)
			if _, err := fmt.Fprintf(w, "%s  - %s\n", indent, entry); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < n.Count(); i++ {
		if err := t.printNode(w, n.ChildOffset(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// String renders m as "[lo1 lo2 ... : hi1 hi2 ...]" for diagnostics.
func (m MBR[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < m.dims; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", m.Lo(i))
	}
	b.WriteString(" : ")
	for i := 0; i < m.dims; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", m.Hi(i))
	}
	b.WriteByte(']')
	return b.String()
}
