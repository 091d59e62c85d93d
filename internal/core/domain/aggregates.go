package domain

import "time"

type DateCount struct {
	Date  time.Time
	Count int
}

type HourCount struct {
	Hour  int
	Count int
}

type HourlyMean struct {
	Hour int
	Mean float64
}

type WeekdayCount struct {
	Weekday time.Weekday
	Count   int
}

type MonthCount struct {
	Year  int
	Month time.Month
	Count int
}

type SpeciesCount struct {
	Species string
	Count   int
}

// HourlyStats describes the distribution of raw record hours, used for the
// dashboard's normal-curve overlay.
type HourlyStats struct {
	MeanHour   float64
	StdDevHour float64
}

type DatasetSummary struct {
	RecordCount        int
	FirstDate          time.Time
	LastDate           time.Time
	DayCount           int
	MeanDailyAdoptions float64
	SpeciesBreakdown   []SpeciesCount
	Source             string
}
