package billing

import (
	"strings"
	"time"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

const (
	FlagHoliday    = "holiday"
	FlagNightHours = "night hours"
)

func IsHoliday(date time.Time, holidays []models.Holiday) bool {
	_, ok := FindHoliday(date, holidays)
	return ok
}

func FindHoliday(date time.Time, holidays []models.Holiday) (models.Holiday, bool) {
	target := calendarDate(date)
	for _, holiday := range holidays {
		if calendarDate(holiday.Date).Equal(target) {
			return holiday, true
		}
	}
	return models.Holiday{}, false
}

// InNightWindow reports whether hour falls inside [nightStart, nightEnd).
// A window with nightStart >= nightEnd wraps past midnight.
func InNightWindow(hour int, nightStart int, nightEnd int) bool {
	if nightStart < nightEnd {
		return hour >= nightStart && hour < nightEnd
	}
	return hour >= nightStart || hour < nightEnd
}

// OverlapsNight samples the wall-clock hour at start, start+1h, ... up to end,
// then the hour of end itself. Minute-level overlap inside an hour that is
// never sampled is not detected.
func OverlapsNight(start time.Time, end time.Time, nightStart int, nightEnd int) bool {
	for cursor := start; !cursor.After(end); cursor = cursor.Add(time.Hour) {
		if InNightWindow(cursor.Hour(), nightStart, nightEnd) {
			return true
		}
	}
	return InNightWindow(end.Hour(), nightStart, nightEnd)
}

// SurchargeFlags lists the surcharge conditions for a job in display order.
// The holiday check uses the start date only.
func SurchargeFlags(start time.Time, end time.Time, holidays []models.Holiday, nightStart int, nightEnd int) []string {
	flags := make([]string, 0, 2)
	if IsHoliday(start, holidays) {
		flags = append(flags, FlagHoliday)
	}
	if OverlapsNight(start, end, nightStart, nightEnd) {
		flags = append(flags, FlagNightHours)
	}
	return flags
}

func AnnotateDetail(detail string, flags []string) string {
	detail = strings.TrimSpace(detail)
	if len(flags) == 0 {
		return detail
	}
	suffix := "(" + strings.Join(flags, " & ") + ")"
	if detail == "" {
		return suffix
	}
	return detail + " " + suffix
}
