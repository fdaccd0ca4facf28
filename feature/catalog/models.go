package catalog

import "sort"

// Library is a named backup pool and the sectors registered in it.
type Library struct {
	// Sectors maps a sector name to its registered media paths.
	Sectors map[string][]string `json:"sectors"`
	// Comparator names how sectors of this library are compared.
	Comparator string `json:"comparator"`
}

// SectorNames returns the sector names in ascending order.
func (l *Library) SectorNames() []string {
	names := make([]string, 0, len(l.Sectors))
	for name := range l.Sectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasMedia reports whether mediaPath is registered in sector.
func (l *Library) HasMedia(sector, mediaPath string) bool {
	for _, p := range l.Sectors[sector] {
		if p == mediaPath {
			return true
		}
	}
	return false
}

// Registry is the persisted list of libraries.
type Registry struct {
	Version   string              `json:"version"`
	Libraries map[string]*Library `json:"libraryMapping"`
}

// LibraryNames returns the library names in ascending order.
func (r *Registry) LibraryNames() []string {
	names := make([]string, 0, len(r.Libraries))
	for name := range r.Libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
