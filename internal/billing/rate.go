// Package billing prices jobs and folds them into invoice and statistics views.
// Every function in this package is pure and safe for concurrent use.
package billing

import (
	"math"
	"time"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

// Amount prices a single engagement. Unknown modes bill the flat rate.
func Amount(mode string, rate float64, start time.Time, end time.Time) float64 {
	switch mode {
	case models.RoleModeHourly:
		return rate * DurationHours(start, end)
	case models.RoleModeProduction:
		return rate
	case models.RoleModeDaily:
		return rate * float64(InclusiveDays(start, end))
	case models.RoleModeWeekly:
		return rate * float64(WeeksCeiling(start, end))
	default:
		return rate
	}
}

// DurationHours measures wall-clock hours, so a job spanning a DST switch
// bills the hours on the clock rather than the elapsed ones.
func DurationHours(start time.Time, end time.Time) float64 {
	hours := wallClockUTC(end).Sub(wallClockUTC(start)).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

// InclusiveDays counts calendar dates touched by the interval, so a job that
// crosses midnight by a few minutes spans two days.
func InclusiveDays(start time.Time, end time.Time) int {
	days := int(calendarDate(end).Sub(calendarDate(start)).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

func WeeksCeiling(start time.Time, end time.Time) int {
	days := InclusiveDays(start, end)
	if days == 0 {
		return 0
	}
	return int(math.Ceil(float64(days) / 7))
}

// JobAmount prices a stored job through its role. Jobs without a loaded role
// are worth nothing.
func JobAmount(job models.Job) float64 {
	if job.Role.ID == 0 {
		return 0
	}
	return Amount(job.Role.Mode, job.Role.Rate, job.StartAt, job.EndAt)
}

func wallClockUTC(value time.Time) time.Time {
	year, month, day := value.Date()
	hour, minute, second := value.Clock()
	return time.Date(year, month, day, hour, minute, second, value.Nanosecond(), time.UTC)
}

func calendarDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
