package domain

// Deduplicator folds a stream of events into a unique-by-identity collection,
// first-seen-wins. Later duplicates, such as an event reappearing in two
// overlapping monthly windows, are silently dropped. This is the sole
// de-duplication boundary in the pipeline.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates an empty Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Observe reports whether the ID is seen for the first time, and marks it seen.
func (d *Deduplicator) Observe(gdacsID string) bool {
	if _, dup := d.seen[gdacsID]; dup {
		return false
	}
	d.seen[gdacsID] = struct{}{}
	return true
}

// Dedupe returns the input events minus duplicates, preserving the order of
// first occurrence.
func Dedupe(events []Event) []Event {
	d := NewDeduplicator()
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if d.Observe(e.GDACSID) {
			out = append(out, e)
		}
	}
	return out
}
