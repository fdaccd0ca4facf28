// Package sectordiff compares the item sets of the sectors in a library.
//
// For every sector, Diff collects the items that some other sector holds but
// it does not, tagged with the sector they can be found in. The result is
// what a sector would need to copy from its siblings to become complete.
//
//	sets := map[string]sectordiff.ItemSet{
//	    "s1": sectordiff.NewItemSet("a", "b", "c"),
//	    "s2": sectordiff.NewItemSet("b", "c", "d"),
//	}
//	report := sectordiff.Compare(sets)
//	// report.DiffBins["s1"] == []Pair{{Sector: "s2", Item: "d"}}
//	// report.DiffBins["s2"] == []Pair{{Sector: "s1", Item: "a"}}
//
// A Comparator turns a snapshot tree into an ItemSet: by file name, or by
// path relative to the media root.
package sectordiff
