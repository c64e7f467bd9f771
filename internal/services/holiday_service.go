package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

var (
	ErrHolidayInvalidDate  = errors.New("invalid holiday date")
	ErrHolidayNameRequired = errors.New("holiday name required")
)

var isoDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

type HolidayRepository interface {
	List() ([]models.Holiday, error)
	FindByDate(date time.Time) (models.Holiday, error)
	Create(holiday *models.Holiday) error
	UpdateByID(holidayID uint, updates map[string]any) error
	DeleteByID(holidayID uint) error
}

type HolidayInput struct {
	Date          string
	Name          string
	SurchargeText string
}

// HolidayLookup answers the date probe used by the job form. Parsed is false
// when the query date could not be read.
type HolidayLookup struct {
	Parsed        bool
	IsHoliday     bool
	Name          string
	SurchargeText string
}

type HolidayService struct {
	holidays HolidayRepository
}

func NewHolidayService(holidays HolidayRepository) *HolidayService {
	return &HolidayService{holidays: holidays}
}

func (service *HolidayService) List() ([]models.Holiday, error) {
	return service.holidays.List()
}

func (service *HolidayService) Add(input HolidayInput) (models.Holiday, error) {
	holiday, err := buildHoliday(input)
	if err != nil {
		return models.Holiday{}, err
	}
	if err := service.holidays.Create(&holiday); err != nil {
		return models.Holiday{}, err
	}
	return holiday, nil
}

func (service *HolidayService) Update(holidayID uint, input HolidayInput) error {
	holiday, err := buildHoliday(input)
	if err != nil {
		return err
	}
	return service.holidays.UpdateByID(holidayID, map[string]any{
		"date":           holiday.Date,
		"name":           holiday.Name,
		"surcharge_text": holiday.SurchargeText,
	})
}

func (service *HolidayService) Delete(holidayID uint) error {
	return service.holidays.DeleteByID(holidayID)
}

func (service *HolidayService) Lookup(rawDate string) (HolidayLookup, error) {
	date, ok := ParseISODate(rawDate)
	if !ok {
		return HolidayLookup{}, nil
	}

	holiday, err := service.holidays.FindByDate(date)
	if isNotFound(err) {
		return HolidayLookup{Parsed: true}, nil
	}
	if err != nil {
		return HolidayLookup{}, err
	}
	return HolidayLookup{
		Parsed:        true,
		IsHoliday:     true,
		Name:          holiday.Name,
		SurchargeText: holiday.SurchargeText,
	}, nil
}

// ParseISODate accepts a bare date or an ISO date-time and returns the
// calendar date at UTC midnight.
func ParseISODate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range isoDateLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			year, month, day := parsed.Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func buildHoliday(input HolidayInput) (models.Holiday, error) {
	date, ok := ParseISODate(input.Date)
	if !ok {
		return models.Holiday{}, ErrHolidayInvalidDate
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Holiday{}, ErrHolidayNameRequired
	}
	return models.Holiday{
		Date:          date,
		Name:          name,
		SurchargeText: strings.TrimSpace(input.SurchargeText),
	}, nil
}
