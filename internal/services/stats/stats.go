// Package stats projects the day-keyed counter map into rolling time series.
// Everything here is a pure function of a snapshot and an explicit anchor
// date, so results are fully reproducible in tests.
package stats

import (
	"time"

	"github.com/vshulcz/daytally/internal/domain"
)

const weekCount = 8

// DailyPoint is one day of the trailing-week series.
type DailyPoint struct {
	Date     string `json:"date"`
	AddCount uint64 `json:"add_count"`
	SubCount uint64 `json:"sub_count"`
	Net      int64  `json:"net"`
}

// WeeklyPoint sums the seven days of one Monday-start week.
type WeeklyPoint struct {
	Week      string `json:"week"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	AddCount  uint64 `json:"add_count"`
	SubCount  uint64 `json:"sub_count"`
	Net       int64  `json:"net"`
}

// WeeklyAveragePoint carries per-day averages for one week. DaysCounted is
// how many days of the week had elapsed at the anchor date.
type WeeklyAveragePoint struct {
	Week        string  `json:"week"`
	DaysCounted int     `json:"days_counted"`
	AvgAdd      float64 `json:"avg_add"`
	AvgSub      float64 `json:"avg_sub"`
	AvgNet      float64 `json:"avg_net"`
}

// Report bundles the three series returned by a stats query.
type Report struct {
	Last7Days      []DailyPoint         `json:"last_7_days"`
	WeeklyTotals   []WeeklyPoint        `json:"weekly_totals"`
	WeeklyAverages []WeeklyAveragePoint `json:"weekly_averages"`
}

// Build projects the snapshot onto the anchor date: exactly 7 daily points
// ending at the anchor and exactly 8 weekly totals/averages ending with the
// week containing it, all oldest first. Missing days contribute zero.
func Build(s domain.Snapshot, anchor time.Time) Report {
	anchor = civil(anchor)

	daily := make([]DailyPoint, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		date := anchor.AddDate(0, 0, -offset)
		counts := s.Days[DayKey(date)]
		daily = append(daily, DailyPoint{
			Date:     DayKey(date),
			AddCount: counts.Add,
			SubCount: counts.Sub,
			Net:      counts.Net(),
		})
	}

	currentWeekStart := WeekStart(anchor)
	totals := make([]WeeklyPoint, 0, weekCount)
	averages := make([]WeeklyAveragePoint, 0, weekCount)

	for offset := weekCount - 1; offset >= 0; offset-- {
		start := currentWeekStart.AddDate(0, 0, -7*offset)
		end := start.AddDate(0, 0, 6)

		var addSum, subSum uint64
		for day := 0; day < 7; day++ {
			counts := s.Days[DayKey(start.AddDate(0, 0, day))]
			addSum = domain.SatAdd(addSum, counts.Add)
			subSum = domain.SatAdd(subSum, counts.Sub)
		}
		net := int64(addSum) - int64(subSum)

		daysCounted := daysElapsed(anchor, start, end)
		denom := float64(daysCounted)
		if daysCounted == 0 {
			denom = 1
		}

		totals = append(totals, WeeklyPoint{
			Week:      WeekLabel(start),
			StartDate: DayKey(start),
			EndDate:   DayKey(end),
			AddCount:  addSum,
			SubCount:  subSum,
			Net:       net,
		})
		averages = append(averages, WeeklyAveragePoint{
			Week:        WeekLabel(start),
			DaysCounted: daysCounted,
			AvgAdd:      float64(addSum) / denom,
			AvgSub:      float64(subSum) / denom,
			AvgNet:      float64(net) / denom,
		})
	}

	return Report{
		Last7Days:      daily,
		WeeklyTotals:   totals,
		WeeklyAverages: averages,
	}
}

// civil strips the time-of-day and timezone, leaving a UTC midnight. All
// projector arithmetic is calendar arithmetic over these values.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysElapsed counts how many days of the [start, end] week had elapsed at
// the anchor, inclusive of the anchor day. A week entirely in the future
// counts zero days.
func daysElapsed(anchor, start, end time.Time) int {
	switch {
	case anchor.Before(start):
		return 0
	case anchor.After(end):
		return 7
	default:
		return int(anchor.Sub(start).Hours()/24) + 1
	}
}
