package sectordiff

import (
	"fmt"
	"path"

	"media-catalog/core/entry"
)

const (
	// ComparatorFilename compares sectors by the base names of their files.
	ComparatorFilename = "filename"
	// ComparatorPath compares sectors by file paths relative to each media root.
	ComparatorPath = "path"
)

// Comparator flattens a snapshot tree into the items a sector is compared by.
type Comparator interface {
	Name() string
	Items(root *entry.Node) ItemSet
}

// ComparatorFor returns the comparator registered under name.
func ComparatorFor(name string) (Comparator, error) {
	switch name {
	case ComparatorFilename, "":
		return filenameComparator{}, nil
	case ComparatorPath:
		return pathComparator{}, nil
	default:
		return nil, fmt.Errorf("unknown comparator %q (expected %s or %s)", name, ComparatorFilename, ComparatorPath)
	}
}

type filenameComparator struct{}

func (filenameComparator) Name() string { return ComparatorFilename }

func (filenameComparator) Items(root *entry.Node) ItemSet {
	items := make(ItemSet)
	walkLeaves(root, func(_ string, leaf *entry.Leaf) {
		items.Add(leaf.Name())
	})
	return items
}

type pathComparator struct{}

func (pathComparator) Name() string { return ComparatorPath }

func (pathComparator) Items(root *entry.Node) ItemSet {
	items := make(ItemSet)
	walkLeaves(root, func(dir string, leaf *entry.Leaf) {
		items.Add(path.Join(dir, leaf.Name()))
	})
	return items
}

// walkLeaves visits every leaf under root with the slash-separated path of
// its directory relative to root.
func walkLeaves(root *entry.Node, visit func(dir string, leaf *entry.Leaf)) {
	if root == nil {
		return
	}

	type item struct {
		dir  string
		node *entry.Node
	}
	stack := []item{{node: root}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, leaf := range cur.node.Leaves() {
			visit(cur.dir, leaf)
		}
		for _, d := range cur.node.Dirs() {
			name, _ := d.Name()
			stack = append(stack, item{dir: path.Join(cur.dir, name), node: d})
		}
	}
}
