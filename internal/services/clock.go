package services

import "time"

// WallClock reinterprets the wall-clock reading of value in location. Job
// times are stored as local wall-clock text, so rows read back with a
// different offset still describe the same local moment.
func WallClock(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.Date()
	hour, minute, second := value.Clock()
	return time.Date(year, month, day, hour, minute, second, value.Nanosecond(), location)
}

func ValidPeriod(year int, month int) bool {
	return year >= 1 && year <= 9999 && month >= 1 && month <= 12
}
