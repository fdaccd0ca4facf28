package sectordiff

import "sort"

// Diff computes the diff bin of every sector in sets.
//
// Each unordered pair of distinct sectors (A, B) is compared once: an item
// of A missing from B is filed in B's bin as (A, item), and an item of B
// missing from A is filed in A's bin as (B, item). Every input sector gets a
// bin, possibly empty. Bins are sorted by sector and then item so output is
// deterministic; callers should still treat them as sets.
func Diff(sets map[string]ItemSet) Mapping {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	bins := make(Mapping, len(names))
	for _, name := range names {
		bins[name] = []Pair{}
	}

	for i, a := range names {
		for _, b := range names[i+1:] {
			setA, setB := sets[a], sets[b]
			for item := range setA {
				if !setB.Has(item) {
					bins[b] = append(bins[b], Pair{Sector: a, Item: item})
				}
			}
			for item := range setB {
				if !setA.Has(item) {
					bins[a] = append(bins[a], Pair{Sector: b, Item: item})
				}
			}
		}
	}

	for _, bin := range bins {
		sort.Slice(bin, func(i, j int) bool {
			if bin[i].Sector != bin[j].Sector {
				return bin[i].Sector < bin[j].Sector
			}
			return bin[i].Item < bin[j].Item
		})
	}

	return bins
}

// Compare diffs sets and reports the largest and smallest sectors.
// Among sectors of equal size the lexicographically smallest name wins.
func Compare(sets map[string]ItemSet) *Report {
	report := &Report{DiffBins: Diff(sets)}

	for _, name := range report.DiffBins.Sectors() {
		size := len(sets[name])
		if report.Largest == nil || size > report.Largest.Count {
			report.Largest = &SectorSize{Name: name, Count: size}
		}
		if report.Smallest == nil || size < report.Smallest.Count {
			report.Smallest = &SectorSize{Name: name, Count: size}
		}
	}

	return report
}
