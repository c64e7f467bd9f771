package services

import (
	"time"

	"github.com/terraincognita07/freelancer-admin/internal/billing"
	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type StatsJobReader interface {
	ListStartingBetween(from time.Time, to time.Time) ([]models.Job, error)
	ListYears() ([]int, error)
}

type StatsOverview struct {
	Years  []int
	Year   int
	Totals billing.YearTotals
}

type StatsService struct {
	jobs     StatsJobReader
	settings SettingsRepository
	location *time.Location
}

func NewStatsService(jobs StatsJobReader, settings SettingsRepository, location *time.Location) *StatsService {
	if location == nil {
		location = time.UTC
	}
	return &StatsService{jobs: jobs, settings: settings, location: location}
}

func (service *StatsService) loadYear(year int) ([]billing.PricedJob, float64, error) {
	settings, err := service.settings.Get()
	if err != nil {
		return nil, 0, err
	}
	from, to := billing.YearBounds(year, service.location)
	jobs, err := service.jobs.ListStartingBetween(from, to)
	if err != nil {
		return nil, 0, err
	}
	return billing.PriceJobs(jobs), billing.NetFactor(settings.NetRatePercent), nil
}

func (service *StatsService) YearStats(year int) (billing.YearStats, error) {
	priced, netFactor, err := service.loadYear(year)
	if err != nil {
		return billing.YearStats{}, err
	}
	return billing.BuildYearStats(priced, netFactor), nil
}

// Overview lists the years that have jobs (the current year when there are
// none) and the totals for the selected year.
func (service *StatsService) Overview(year int, now time.Time) (StatsOverview, error) {
	years, err := service.jobs.ListYears()
	if err != nil {
		return StatsOverview{}, err
	}
	if len(years) == 0 {
		years = []int{now.In(service.location).Year()}
	}

	priced, netFactor, err := service.loadYear(year)
	if err != nil {
		return StatsOverview{}, err
	}
	return StatsOverview{
		Years:  years,
		Year:   year,
		Totals: billing.SummarizeYear(priced, netFactor),
	}, nil
}
