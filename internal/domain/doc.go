// Package domain models GDACS flood disaster events.
//
// # Data Source
//
// Events originate from the GDACS (Global Disaster Alert and Coordination
// System) event-list API at https://www.gdacs.org/gdacsapi/. The feed is
// queried in calendar-month windows for flood events (eventlist=FL) across
// all alert levels; each query returns GeoJSON-style features with event
// properties and a point geometry, longitude first.
//
// # Identity
//
// The canonical identity key is GDACS_ID, formed as "{eventtype}-{eventid}"
// (e.g. "FL-1000049"). It is the sole join key for deduplication across
// overlapping windows, override reconciliation, and change detection between
// snapshots. A feature missing either identity field is unusable and skipped.
//
// # Geospatial attribution
//
// Two independent resolutions are attempted so they can be cross-checked:
//
//	declared:   the feed's first affectedcountries entry {name, iso2, iso3},
//	            falling back to the bare declared country name.
//	coordinate: point-in-polygon containment of the event coordinates against
//	            a reference country-boundary layer.
//
// Continents derive from either resolution's ISO3 code, falling back to a
// name lookup. In grid mode the pipeline instead buckets coordinates into
// Equi7 tiles across six continent-scale regional layers checked in the fixed
// order AF, AS, EU, NA, OC, SA; the first containing tile wins.
//
// Every unresolvable lookup (point in open ocean, unknown ISO code) yields an
// absent value, never an error; the validator routes such rows to manual
// review instead of failing ingestion.
//
// # Timestamps
//
// The feed emits second-precision local timestamps without a zone designator,
// e.g. "2026-01-01T00:00:00". They are kept verbatim as strings and only
// parsed during validation; reformatting them would defeat change detection
// against previously persisted snapshots.
package domain
