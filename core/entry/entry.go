package entry

import (
	"sort"

	"go.uber.org/zap"
)

// Entry is a member of a directory snapshot: either a *Leaf or a *Node.
// The interface is sealed; consumers switch on the concrete type.
type Entry interface {
	isEntry()
}

// Leaf is a file name without further structure.
type Leaf struct {
	name string
}

// NewLeaf creates a leaf for the given file name.
func NewLeaf(name string) *Leaf {
	return &Leaf{name: name}
}

// Name returns the file name.
func (l *Leaf) Name() string {
	return l.name
}

func (*Leaf) isEntry() {}

// Node is a directory snapshot.
//
// The root node of a snapshot carries a version and no name. Every other
// node carries its single path segment as name and no version. Children form
// a set: leaves are unique by name and nodes are unique by structural
// equality.
type Node struct {
	name    string
	root    bool
	version string

	leaves map[string]*Leaf
	dirs   map[string][]*Node
}

// NewRoot creates the top-level node of a snapshot.
func NewRoot(version string) *Node {
	return &Node{
		root:    true,
		version: version,
		leaves:  make(map[string]*Leaf),
		dirs:    make(map[string][]*Node),
	}
}

// NewDir creates a non-root node named by the directory's base name.
func NewDir(name string) *Node {
	return &Node{
		name:   name,
		leaves: make(map[string]*Leaf),
		dirs:   make(map[string][]*Node),
	}
}

func (*Node) isEntry() {}

// IsRoot reports whether n is the top-level node of a snapshot.
func (n *Node) IsRoot() bool {
	return n.root
}

// Name returns the subdirectory name. It is absent on the root node.
func (n *Node) Name() (string, bool) {
	if n.root {
		return "", false
	}
	return n.name, true
}

// Version returns the schema version. It is present only on the root node.
func (n *Node) Version() (string, bool) {
	if !n.root {
		return "", false
	}
	return n.version, true
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	count := len(n.leaves)
	for _, group := range n.dirs {
		count += len(group)
	}
	return count
}

// AddChild adds item to the children of n and reports whether it was added.
//
// It is meant to be called only while a tree is being built. Invalid items
// (nil, a root node, n itself or one of its ancestors) are not added and
// produce a warning instead of an error. Items already present are ignored.
func (n *Node) AddChild(item Entry) bool {
	switch v := item.(type) {
	case nil:
		zap.L().Warn("Asked to index a nil entry")
		return false
	case *Leaf:
		if v == nil {
			zap.L().Warn("Asked to index a nil entry")
			return false
		}
		if _, exists := n.leaves[v.name]; exists {
			return false
		}
		n.leaves[v.name] = v
		return true
	case *Node:
		if v == nil {
			zap.L().Warn("Asked to index a nil entry")
			return false
		}
		if v.root {
			zap.L().Warn("Refusing to index a root node as a child", zap.String("parent", n.name))
			return false
		}
		if v.contains(n) {
			zap.L().Warn("Refusing to index a directory inside itself", zap.String("dir", v.name))
			return false
		}
		for _, existing := range n.dirs[v.name] {
			if Equal(existing, v) {
				return false
			}
		}
		n.dirs[v.name] = append(n.dirs[v.name], v)
		return true
	default:
		zap.L().Warn("Asked to index an unknown entry type")
		return false
	}
}

// contains reports whether target is n or one of its descendant nodes.
func (n *Node) contains(target *Node) bool {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		for _, group := range cur.dirs {
			stack = append(stack, group...)
		}
	}
	return false
}

// Leaves returns the leaf children sorted by name.
func (n *Node) Leaves() []*Leaf {
	leaves := make([]*Leaf, 0, len(n.leaves))
	for _, l := range n.leaves {
		leaves = append(leaves, l)
	}
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].name < leaves[j].name
	})
	return leaves
}

// Dirs returns the node children sorted by name, ties broken by digest.
func (n *Node) Dirs() []*Node {
	dirs := make([]*Node, 0, len(n.dirs))
	for _, group := range n.dirs {
		dirs = append(dirs, group...)
	}
	if len(dirs) < 2 {
		return dirs
	}

	digests := make(map[*Node]Digest, len(dirs))
	for _, d := range dirs {
		if len(n.dirs[d.name]) > 1 {
			digests[d] = Hash(d)
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].name != dirs[j].name {
			return dirs[i].name < dirs[j].name
		}
		return digests[dirs[i]].Less(digests[dirs[j]])
	})
	return dirs
}

// Children returns all children in canonical order: leaves first, then nodes.
func (n *Node) Children() []Entry {
	children := make([]Entry, 0, n.Len())
	for _, l := range n.Leaves() {
		children = append(children, l)
	}
	for _, d := range n.Dirs() {
		children = append(children, d)
	}
	return children
}

// Count returns the number of leaves and nodes below n, n excluded.
func Count(n *Node) (files, dirs int) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		files += len(cur.leaves)
		for _, group := range cur.dirs {
			dirs += len(group)
			stack = append(stack, group...)
		}
	}
	return files, dirs
}
