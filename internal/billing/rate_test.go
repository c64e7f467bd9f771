package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

func at(value string) time.Time {
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		rate  float64
		start string
		end   string
		want  float64
	}{
		{name: "hourly bills duration", mode: models.RoleModeHourly, rate: 500, start: "2024-03-01 08:00", end: "2024-03-01 10:30", want: 1250},
		{name: "hourly negative interval clamps", mode: models.RoleModeHourly, rate: 500, start: "2024-03-01 10:00", end: "2024-03-01 08:00", want: 0},
		{name: "production ignores duration", mode: models.RoleModeProduction, rate: 1200, start: "2024-03-01 08:00", end: "2024-03-05 08:00", want: 1200},
		{name: "production with negative interval", mode: models.RoleModeProduction, rate: 1200, start: "2024-03-05 08:00", end: "2024-03-01 08:00", want: 1200},
		{name: "daily across midnight counts two days", mode: models.RoleModeDaily, rate: 3000, start: "2024-03-01 23:50", end: "2024-03-02 00:10", want: 6000},
		{name: "daily same day", mode: models.RoleModeDaily, rate: 3000, start: "2024-03-01 09:00", end: "2024-03-01 17:00", want: 3000},
		{name: "daily negative span", mode: models.RoleModeDaily, rate: 3000, start: "2024-03-05 09:00", end: "2024-03-01 17:00", want: 0},
		{name: "weekly seven days", mode: models.RoleModeWeekly, rate: 10000, start: "2024-03-01 09:00", end: "2024-03-07 17:00", want: 10000},
		{name: "weekly eight days", mode: models.RoleModeWeekly, rate: 10000, start: "2024-03-01 09:00", end: "2024-03-08 17:00", want: 20000},
		{name: "unknown mode is flat", mode: "retainer", rate: 42, start: "2024-03-01 09:00", end: "2024-03-08 17:00", want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Amount(tt.mode, tt.rate, at(tt.start), at(tt.end)), 1e-9)
		})
	}
}

func TestInclusiveDaysAndWeeks(t *testing.T) {
	assert.Equal(t, 2, InclusiveDays(at("2024-03-01 23:50"), at("2024-03-02 00:10")))
	assert.Equal(t, 0, InclusiveDays(at("2024-03-03 10:00"), at("2024-03-01 10:00")))
	assert.Equal(t, 0, WeeksCeiling(at("2024-03-03 10:00"), at("2024-03-01 10:00")))
	assert.Equal(t, 1, WeeksCeiling(at("2024-03-01 10:00"), at("2024-03-01 11:00")))
	assert.Equal(t, 3, WeeksCeiling(at("2024-03-01 10:00"), at("2024-03-15 11:00")))
}

func TestInclusiveDaysAcrossDST(t *testing.T) {
	stockholm, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		t.Skip("timezone database unavailable")
	}
	start := time.Date(2024, time.March, 30, 12, 0, 0, 0, stockholm)
	end := time.Date(2024, time.April, 1, 12, 0, 0, 0, stockholm)
	assert.Equal(t, 3, InclusiveDays(start, end))
}

func TestDurationHoursUsesWallClockAcrossDST(t *testing.T) {
	stockholm, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		t.Skip("timezone database unavailable")
	}
	// Clocks jump from 02:00 to 03:00 on 2024-03-31 and back on 2024-10-27.
	spring := DurationHours(
		time.Date(2024, time.March, 31, 1, 0, 0, 0, stockholm),
		time.Date(2024, time.March, 31, 4, 0, 0, 0, stockholm),
	)
	autumn := DurationHours(
		time.Date(2024, time.October, 27, 1, 0, 0, 0, stockholm),
		time.Date(2024, time.October, 27, 4, 0, 0, 0, stockholm),
	)
	assert.Equal(t, 3.0, spring)
	assert.Equal(t, 3.0, autumn)
	assert.Equal(t, 1500.0, Amount(models.RoleModeHourly, 500, time.Date(2024, time.March, 31, 1, 0, 0, 0, stockholm), time.Date(2024, time.March, 31, 4, 0, 0, 0, stockholm)))
}

func TestJobAmountWithoutRole(t *testing.T) {
	job := models.Job{StartAt: at("2024-03-01 08:00"), EndAt: at("2024-03-01 10:00")}
	assert.Zero(t, JobAmount(job))

	job.Role = models.Role{ID: 1, Mode: models.RoleModeHourly, Rate: 100}
	assert.InDelta(t, 200.0, JobAmount(job), 1e-9)
}
