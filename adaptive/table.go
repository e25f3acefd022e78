// Package adaptive turns per-surface background luminance into stable light/dark colour
// recommendations and publishes them for panels and bars drawn on top of the glass.
package adaptive

import "strings"

const (
	// DarkThreshold: a light region flips to dark below this.
	DarkThreshold = 0.45
	// LightThreshold: a dark region flips to light above this.
	LightThreshold = 0.55

	// DefaultPrefix marks surfaces that take part in adaptive colouring.
	DefaultPrefix = "molten-glass-"
)

// RegionKey derives the region name from a surface name: "molten-glass-notch" -> "notch".
// Names without the prefix, or with nothing after it, are not regions.
func RegionKey(name, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return "", false
	}
	region := name[len(prefix):]
	if region == "" {
		return "", false
	}
	return region, true
}

// Region is the state kept for one region.
type Region struct {
	Luminance float64
	IsDark    bool
}

// Table holds the hysteresis state of every region seen so far. It is not safe for
// concurrent use; Publisher serialises access.
type Table struct {
	regions map[string]*Region
}

func NewTable() *Table {
	return &Table{regions: make(map[string]*Region)}
}

// Observe records lum for region and applies one hysteresis step. A region starts dark.
// flipped reports whether this observation changed the classification.
func (t *Table) Observe(region string, lum float64) (isDark, flipped bool) {
	r, ok := t.regions[region]
	if !ok {
		r = &Region{IsDark: true}
		t.regions[region] = r
	}
	r.Luminance = lum

	was := r.IsDark
	switch {
	case r.IsDark && lum > LightThreshold:
		r.IsDark = false
	case !r.IsDark && lum < DarkThreshold:
		r.IsDark = true
	}
	return r.IsDark, r.IsDark != was
}

// Get returns a copy of a region's state.
func (t *Table) Get(region string) (Region, bool) {
	r, ok := t.regions[region]
	if !ok {
		return Region{}, false
	}
	return *r, true
}

func (t *Table) Len() int { return len(t.regions) }

// Reset forgets every region.
func (t *Table) Reset() {
	clear(t.regions)
}

// Snapshot copies the whole table.
func (t *Table) Snapshot() Snapshot {
	s := make(Snapshot, len(t.regions))
	for name, r := range t.regions {
		s[name] = entryFor(*r)
	}
	return s
}
