package domain

// ApplyOverrides merges a human-edited correction table into a snapshot,
// correction-wins, keyed by GDACS_ID. The merge is per-field: an override
// value replaces the existing one only when it is non-empty, so a partial
// correction (continent only) never nulls out an unrelated field. Rows in the
// override table with no corrections at all are ignored, and events without a
// matching override pass through unchanged. The input snapshot is not
// mutated; corrected events are new records.
func ApplyOverrides(events []Event, overrides []Override) []Event {
	byID := make(map[string]Override, len(overrides))
	for _, o := range overrides {
		if o.IsEmpty() {
			continue
		}
		byID[o.GDACSID] = o
	}

	out := make([]Event, len(events))
	for i, e := range events {
		o, ok := byID[e.GDACSID]
		if !ok {
			out[i] = e
			continue
		}

		if o.Country != "" {
			e.Country = o.Country
		}
		if o.ISO3 != "" {
			e.ISO3 = o.ISO3
		}
		if o.Continent != "" {
			e.Continent = o.Continent
			// The coordinate-derived mirror is refreshed too, keeping both
			// continent views consistent for later validation passes. This
			// conflates a declared correction with the coordinate-derived
			// field; kept as-is pending product clarification.
			e.ContinentLonLat = o.Continent
		}

		out[i] = e
	}
	return out
}
