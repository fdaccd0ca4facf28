// Package compare reports what each sector of a library is missing.
//
// The persisted snapshots of every medium in a sector are flattened into one
// item set using the library's comparator, and the sets are diffed with
// sectordiff. Media that were registered but never indexed are listed
// separately instead of failing the comparison.
package compare
