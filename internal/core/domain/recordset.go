package domain

import (
	"sort"
	"time"
)

// RecordSet is an immutable collection of adoption records. It is built once
// by a loader and shared read-only by every aggregation after that; nothing
// in this package or its callers writes back to it.
type RecordSet struct {
	records []AdoptionRecord
}

// NewRecordSet copies records into a fresh immutable set.
func NewRecordSet(records []AdoptionRecord) *RecordSet {
	rs := &RecordSet{records: make([]AdoptionRecord, len(records))}
	copy(rs.records, records)
	return rs
}

// Len returns the total number of records.
func (rs *RecordSet) Len() int {
	return len(rs.records)
}

// Each calls fn for every record in load order.
func (rs *RecordSet) Each(fn func(AdoptionRecord)) {
	for _, r := range rs.records {
		fn(r)
	}
}

// Records returns a copy of the underlying records.
func (rs *RecordSet) Records() []AdoptionRecord {
	out := make([]AdoptionRecord, len(rs.records))
	copy(out, rs.records)
	return out
}

// DateRange returns the earliest and latest calendar dates in the set.
// ok is false for an empty set.
func (rs *RecordSet) DateRange() (first, last time.Time, ok bool) {
	if len(rs.records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = rs.records[0].Date, rs.records[0].Date
	for _, r := range rs.records[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, true
}

// DayCount returns the number of distinct calendar dates with at least one
// record.
func (rs *RecordSet) DayCount() int {
	days := make(map[time.Time]struct{})
	for _, r := range rs.records {
		days[r.Date] = struct{}{}
	}
	return len(days)
}

// SpeciesNames returns the distinct species labels in alphabetical order.
func (rs *RecordSet) SpeciesNames() []string {
	seen := make(map[string]struct{})
	for _, r := range rs.records {
		seen[r.Species] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for s := range seen {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}
