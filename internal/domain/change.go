package domain

// TrackedFields are the columns whose change between two snapshots of the
// same identity counts as a meaningful update. Everything else is treated as
// a no-op re-fetch.
var TrackedFields = []string{"fromdate", "todate", "geometry_url"}

// FieldChange records one tracked field's old and new values.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// ChangedEvent is a change-report row: the new snapshot's full event plus the
// names of the tracked fields that differ and their old/new pairs.
type ChangedEvent struct {
	Event
	ChangedFields []string               `json:"changed_fields"`
	Details       map[string]FieldChange `json:"change_details"`
}

// DetectChanges compares two snapshots keyed by GDACS_ID and returns, in the
// new snapshot's order, every event present in both whose tracked fields
// differ. Two absent values compare equal. IDs present only in the old
// snapshot are not reported: the feed is additive and disappearance is not a
// meaningful event. An empty old snapshot yields zero changes by construction.
func DetectChanges(old, updated []Event) []ChangedEvent {
	oldByID := eventsByID(old)

	var changed []ChangedEvent
	for _, e := range updated {
		prev, ok := oldByID[e.GDACSID]
		if !ok {
			continue
		}

		details := make(map[string]FieldChange)
		var fields []string
		for _, field := range TrackedFields {
			oldVal := trackedValue(prev, field)
			newVal := trackedValue(e, field)
			if oldVal == newVal {
				continue
			}
			fields = append(fields, field)
			details[field] = FieldChange{Old: oldVal, New: newVal}
		}

		if len(fields) > 0 {
			changed = append(changed, ChangedEvent{
				Event:         e,
				ChangedFields: fields,
				Details:       details,
			})
		}
	}
	return changed
}

// NewEvents returns, in the new snapshot's order, the events whose GDACS_ID
// does not appear in the old snapshot.
func NewEvents(old, updated []Event) []Event {
	oldByID := eventsByID(old)

	var fresh []Event
	for _, e := range updated {
		if _, ok := oldByID[e.GDACSID]; !ok {
			fresh = append(fresh, e)
		}
	}
	return fresh
}

func eventsByID(events []Event) map[string]Event {
	byID := make(map[string]Event, len(events))
	for _, e := range events {
		byID[e.GDACSID] = e
	}
	return byID
}

func trackedValue(e Event, field string) string {
	switch field {
	case "fromdate":
		return e.FromDate
	case "todate":
		return e.ToDate
	case "geometry_url":
		return e.GeometryURL
	}
	return ""
}
