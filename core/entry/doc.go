// Package entry defines the in-memory model of a directory snapshot.
//
// A snapshot is a tree of entries. A *Leaf is a file name; a *Node is a
// directory holding a set of child entries. Exactly one node per snapshot is
// the root: it carries the catalog schema version and no name. Every other
// node is named by its own path segment.
//
// # Sets, not sequences
//
// Children are a set. Two trees built from the same directory listing in a
// different order are Equal and have the same Hash. Accessors that return
// children (Leaves, Dirs, Children) use a canonical order: leaves sorted by
// name, then nodes sorted by name with ties broken by digest.
//
// # Construction
//
// Trees are built with NewRoot, NewDir, NewLeaf and (*Node).AddChild, and are
// treated as immutable once built. AddChild never fails: invalid items are
// dropped with a warning on the global zap logger.
//
//	root := entry.NewRoot("0.1.0")
//	root.AddChild(entry.NewLeaf("photo1.jpg"))
//	summer := entry.NewDir("summer")
//	summer.AddChild(entry.NewLeaf("flowers.jpg"))
//	root.AddChild(summer)
package entry
