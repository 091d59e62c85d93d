package services

import (
	"math"
	"sort"
	"time"

	"github.com/shelterops/adoption-forecast/internal/core/domain"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
)

// AggregationService computes grouped counts over an immutable record set.
// Every method recomputes from the records it is given; nothing is cached
// between calls, so repeated invocations with identical inputs always
// produce identical outputs.
type AggregationService struct{}

var _ ports.AggregationService = (*AggregationService)(nil)

// NewAggregationService creates a new aggregation service
func NewAggregationService() ports.AggregationService {
	return &AggregationService{}
}

// CountByDate returns adoption counts per calendar date in date order.
// Only observed dates appear; a date with no matching records is absent.
func (s *AggregationService) CountByDate(rs *domain.RecordSet, filter domain.Filter) []domain.DateCount {
	counts := make(map[time.Time]int)
	rs.Each(func(r domain.AdoptionRecord) {
		if filter.Matches(r) {
			counts[r.Date]++
		}
	})

	out := make([]domain.DateCount, 0, len(counts))
	for date, count := range counts {
		out = append(out, domain.DateCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// CountByHour returns raw adoption totals per hour of day in hour order.
// These are non-densified totals across the whole filtered subset; hours
// with no matching records are absent.
func (s *AggregationService) CountByHour(rs *domain.RecordSet, filter domain.Filter) []domain.HourCount {
	counts := make(map[int]int)
	rs.Each(func(r domain.AdoptionRecord) {
		if filter.Matches(r) {
			counts[r.Hour]++
		}
	})

	out := make([]domain.HourCount, 0, len(counts))
	for hour, count := range counts {
		out = append(out, domain.HourCount{Hour: hour, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// CountByWeekday returns adoption counts in fixed Monday through Sunday
// order, with explicit zeros for weekdays that have no matching records.
func (s *AggregationService) CountByWeekday(rs *domain.RecordSet, filter domain.Filter) []domain.WeekdayCount {
	counts := make(map[time.Weekday]int)
	rs.Each(func(r domain.AdoptionRecord) {
		if filter.Matches(r) {
			counts[r.Weekday]++
		}
	})

	out := make([]domain.WeekdayCount, 0, len(domain.WeekdayOrder))
	for _, wd := range domain.WeekdayOrder {
		out = append(out, domain.WeekdayCount{Weekday: wd, Count: counts[wd]})
	}
	return out
}

// CountByMonth returns adoption counts per (year, month) in chronological
// order. Only observed months appear.
func (s *AggregationService) CountByMonth(rs *domain.RecordSet, filter domain.Filter) []domain.MonthCount {
	type monthKey struct {
		year  int
		month time.Month
	}
	counts := make(map[monthKey]int)
	rs.Each(func(r domain.AdoptionRecord) {
		if filter.Matches(r) {
			counts[monthKey{r.Year, r.Month}]++
		}
	})

	out := make([]domain.MonthCount, 0, len(counts))
	for key, count := range counts {
		out = append(out, domain.MonthCount{Year: key.year, Month: key.month, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// CountBySpecies returns adoption counts per species, largest first, ties
// broken alphabetically.
func (s *AggregationService) CountBySpecies(rs *domain.RecordSet, filter domain.Filter) []domain.SpeciesCount {
	counts := make(map[string]int)
	rs.Each(func(r domain.AdoptionRecord) {
		if filter.Matches(r) {
			counts[r.Species]++
		}
	})

	out := make([]domain.SpeciesCount, 0, len(counts))
	for species, count := range counts {
		out = append(out, domain.SpeciesCount{Species: species, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Species < out[j].Species
	})
	return out
}

// HourlyMeans returns the mean adoptions per hour of day, densified: every
// hour 0-23 is present and each mean divides the hour's total by the number
// of distinct dates in the filtered subset, so days where an hour saw no
// adoptions still count as zero cells. An empty subset yields 24 zero means.
func (s *AggregationService) HourlyMeans(rs *domain.RecordSet, filter domain.Filter) []domain.HourlyMean {
	var totals [24]int
	days := make(map[time.Time]struct{})
	rs.Each(func(r domain.AdoptionRecord) {
		if filter.Matches(r) {
			totals[r.Hour]++
			days[r.Date] = struct{}{}
		}
	})

	dayCount := len(days)
	out := make([]domain.HourlyMean, 24)
	for h := 0; h < 24; h++ {
		mean := 0.0
		if dayCount > 0 {
			mean = float64(totals[h]) / float64(dayCount)
		}
		out[h] = domain.HourlyMean{Hour: h, Mean: mean}
	}
	return out
}

// HourlyStats returns the mean and sample standard deviation of the raw
// record hours in the filtered subset.
func (s *AggregationService) HourlyStats(rs *domain.RecordSet, filter domain.Filter) domain.HourlyStats {
	var sum float64
	n := 0
	rs.Each(func(r domain.AdoptionRecord) {
		if filter.Matches(r) {
			sum += float64(r.Hour)
			n++
		}
	})
	if n == 0 {
		return domain.HourlyStats{}
	}

	mean := sum / float64(n)
	stats := domain.HourlyStats{MeanHour: mean}
	if n > 1 {
		var sumSq float64
		rs.Each(func(r domain.AdoptionRecord) {
			if filter.Matches(r) {
				d := float64(r.Hour) - mean
				sumSq += d * d
			}
		})
		stats.StdDevHour = math.Sqrt(sumSq / float64(n-1))
	}
	return stats
}

// Trend fits a least-squares line through the daily counts of the filtered
// subset. A positive lastDays keeps only dates inside the calendar window
// ending at the most recent date in the subset.
func (s *AggregationService) Trend(rs *domain.RecordSet, filter domain.Filter, lastDays int) domain.TrendLine {
	daily := s.CountByDate(rs, filter)
	if lastDays > 0 && len(daily) > 0 {
		cutoff := daily[len(daily)-1].Date.AddDate(0, 0, -lastDays)
		start := 0
		for start < len(daily) && !daily[start].Date.After(cutoff) {
			start++
		}
		daily = daily[start:]
	}
	return domain.FitTrend(daily)
}
