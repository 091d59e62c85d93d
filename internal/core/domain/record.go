package domain

import "time"

// AdoptionRecord is one logged adoption event. The calendar fields are
// derived from Timestamp exactly once at construction and are never set
// independently of it.
type AdoptionRecord struct {
	Outcome   string
	AnimalID  string
	Species   string
	Timestamp time.Time

	Date    time.Time
	Hour    int
	Weekday time.Weekday
	Month   time.Month
	Year    int
}

// NewAdoptionRecord builds a record and derives its calendar fields from ts.
func NewAdoptionRecord(outcome, animalID, species string, ts time.Time) AdoptionRecord {
	return AdoptionRecord{
		Outcome:   outcome,
		AnimalID:  animalID,
		Species:   species,
		Timestamp: ts,
		Date:      DateOf(ts),
		Hour:      ts.Hour(),
		Weekday:   ts.Weekday(),
		Month:     ts.Month(),
		Year:      ts.Year(),
	}
}

// DateOf truncates ts to its calendar date at midnight UTC. Dates produced
// this way are directly comparable and usable as map keys.
func DateOf(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
