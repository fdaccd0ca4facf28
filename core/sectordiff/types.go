package sectordiff

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSector is returned when a bin is requested for a sector that was
// not part of the diff input.
var ErrUnknownSector = errors.New("unknown sector")

// ItemSet is the set of item identifiers registered for one sector.
type ItemSet map[string]struct{}

// NewItemSet builds a set from the given items.
func NewItemSet(items ...string) ItemSet {
	s := make(ItemSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Add inserts item into the set.
func (s ItemSet) Add(item string) {
	s[item] = struct{}{}
}

// Has reports whether item is in the set.
func (s ItemSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the items in ascending order.
func (s ItemSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

// Pair is an item together with the sector it can be found in.
type Pair struct {
	// Sector is the foreign sector holding the item.
	Sector string `json:"sector"`

	// Item is the item identifier.
	Item string `json:"item"`
}

// Mapping maps a sector name to its diff bin: every item another sector
// holds that this sector lacks.
type Mapping map[string][]Pair

// Bin returns the diff bin of sector.
func (m Mapping) Bin(sector string) ([]Pair, error) {
	bin, ok := m[sector]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSector, sector)
	}
	return bin, nil
}

// Sectors returns the sector names in ascending order.
func (m Mapping) Sectors() []string {
	out := make([]string, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SectorSize names a sector and the size of its item set.
type SectorSize struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report is the result of comparing the sectors of a library.
type Report struct {
	// Largest is the sector with the most items; nil for empty input.
	Largest *SectorSize `json:"largest_sector"`

	// Smallest is the sector with the fewest items; nil for empty input.
	Smallest *SectorSize `json:"smallest_sector"`

	// DiffBins holds the diff bin of every input sector.
	DiffBins Mapping `json:"diff_bins"`
}

// Missing returns the total number of pairs across all bins.
func (r *Report) Missing() int {
	total := 0
	for _, bin := range r.DiffBins {
		total += len(bin)
	}
	return total
}
