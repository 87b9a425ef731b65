// Package lot holds the capacity rules for the active sales lot and the pure
// availability computation over issued-ticket counts.
package lot

// RemainingUnlimited is the sentinel returned when no capacity limiting
// applies at all.
const RemainingUnlimited = -1

// Config is the active lot. OverallCapacity 0 means unlimited; a category's
// maxPerLot 0 means bounded only by OverallCapacity. The category set is the
// statically configured set of sellable tiers.
type Config struct {
	Enabled         bool
	OverallCapacity int
	MaxPerCategory  map[string]int
}

func (c Config) KnownCategory(name string) bool {
	_, ok := c.MaxPerCategory[name]
	return ok
}

func (c Config) Categories() []string {
	names := make([]string, 0, len(c.MaxPerCategory))
	for name := range c.MaxPerCategory {
		names = append(names, name)
	}
	return names
}

// Counts is a snapshot of issued tickets, total and per category.
type Counts struct {
	Total      int
	ByCategory map[string]int
}

type Availability struct {
	Available bool
	Remaining int
}

// Check computes whether requestedQty tickets of category fit in the lot.
// The overall bound is evaluated first; when the category carries its own
// maxPerLot the tighter of the two bounds wins. This is pure arithmetic over
// a snapshot: without external serialization it is advisory only.
func (c Config) Check(counts Counts, category string, requestedQty int) Availability {
	if !c.Enabled || c.OverallCapacity == 0 {
		return Availability{Available: true, Remaining: RemainingUnlimited}
	}

	remaining := c.OverallCapacity - counts.Total
	if remaining <= 0 {
		return Availability{Available: false, Remaining: 0}
	}

	if maxPerLot := c.MaxPerCategory[category]; maxPerLot > 0 {
		categoryRemaining := maxPerLot - counts.ByCategory[category]
		if categoryRemaining < remaining {
			remaining = categoryRemaining
		}
	}

	if remaining < 0 {
		remaining = 0
	}

	return Availability{
		Available: remaining >= requestedQty,
		Remaining: remaining,
	}
}
