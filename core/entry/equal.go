package entry

// Equal reports whether a and b are structurally equal.
//
// Leaves are equal when their names are equal. Nodes are equal when they
// agree on being the root, on their name and on their children taken as
// sets. The version carried by a root node is not compared, and neither is
// the order in which children were added.
func Equal(a, b Entry) bool {
	switch x := a.(type) {
	case *Leaf:
		y, ok := b.(*Leaf)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.name == y.name
	case *Node:
		y, ok := b.(*Node)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return equalNodes(x, y)
	default:
		return a == nil && b == nil
	}
}

func equalNodes(x, y *Node) bool {
	if x == y {
		return true
	}
	if x.root != y.root || x.name != y.name {
		return false
	}
	if len(x.leaves) != len(y.leaves) || len(x.dirs) != len(y.dirs) {
		return false
	}
	for name := range x.leaves {
		if _, ok := y.leaves[name]; !ok {
			return false
		}
	}

	// Both sides hold no duplicates, so a bijection exists iff every node
	// of x finds a distinct equal partner among the same-named nodes of y.
	for name, group := range x.dirs {
		other := y.dirs[name]
		if len(group) != len(other) {
			return false
		}
		used := make([]bool, len(other))
		for _, child := range group {
			matched := false
			for i, candidate := range other {
				if used[i] {
					continue
				}
				if equalNodes(child, candidate) {
					used[i] = true
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}
