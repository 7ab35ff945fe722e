package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"pyfmt/internal/cst"
)

// CheckTreeInvariants runs a minimal set of invariants on a parsed tree:
// 1) rendering the tree gives back src, plus the newline the parser appends
// 2) every non-empty leaf span is inside src and starts after the previous one
// 3) every child points back to its parent
func CheckTreeInvariants(tree *cst.Tree, src string) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}

	// 1) lossless
	want := src
	if !strings.HasSuffix(want, "\n") {
		want += "\n"
	}
	if got := tree.String(); got != want {
		return fmt.Errorf("round trip mismatch:\n got %q\nwant %q", got, want)
	}

	// 2) leaf spans ordered and in bounds
	size, err := safecast.Conv[uint32](len(want))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prevStart uint32
	for leaf := range tree.Leaves(tree.Root) {
		sp := tree.Node(leaf).Span
		if sp.Empty() {
			continue
		}
		if sp.End < sp.Start || sp.End > size {
			return fmt.Errorf("leaf %s %q has span %v outside content of %d bytes", tree.Kind(leaf), tree.Value(leaf), sp, size)
		}
		if sp.Start < prevStart {
			return fmt.Errorf("leaf %s %q starts at %d before previous leaf at %d", tree.Kind(leaf), tree.Value(leaf), sp.Start, prevStart)
		}
		prevStart = sp.Start
	}

	// 3) parent links
	for id := range tree.PreOrder(tree.Root) {
		for _, child := range tree.Children(id) {
			if p := tree.Parent(child); p != id {
				return fmt.Errorf("node %s has parent %d, want %d", tree.Label(child), p, id)
			}
		}
	}
	return nil
}
