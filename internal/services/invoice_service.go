package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/terraincognita07/freelancer-admin/internal/billing"
	"github.com/terraincognita07/freelancer-admin/internal/models"
)

const (
	InvoiceFieldSent = "sent"
	InvoiceFieldPaid = "paid"
)

var (
	ErrInvoiceFieldInvalid  = errors.New("invoice field invalid")
	ErrInvoicePeriodInvalid = errors.New("invoice period invalid")
	ErrInvoiceNoJobs        = errors.New("no jobs for client in period")
)

type InvoiceJobReader interface {
	ListStartingBetween(from time.Time, to time.Time) ([]models.Job, error)
}

type InvoiceStatusRepository interface {
	FindOrCreate(clientID uint, year int, month int) (models.InvoiceStatus, error)
	UpdateByID(statusID uint, updates map[string]any) error
}

type ClientCard struct {
	Client models.Client
	Jobs   []models.Job
	Priced []billing.PricedJob
	Totals billing.Totals
	Status models.InvoiceStatus
}

type MonthlySummary struct {
	Year         int
	Month        int
	MonthLabel   string
	Totals       billing.Totals
	Clients      []ClientCard
	YearTotalHT  decimal.Decimal
	NetRateLabel string
	Currency     string
	PrevYear     int
	PrevMonth    int
	NextYear     int
	NextMonth    int
}

type InvoiceService struct {
	jobs     InvoiceJobReader
	statuses InvoiceStatusRepository
	settings SettingsRepository
	location *time.Location
}

func NewInvoiceService(jobs InvoiceJobReader, statuses InvoiceStatusRepository, settings SettingsRepository, location *time.Location) *InvoiceService {
	if location == nil {
		location = time.UTC
	}
	return &InvoiceService{jobs: jobs, statuses: statuses, settings: settings, location: location}
}

// MonthlySummary builds the month view: totals over jobs starting in the
// month, one card per client in first-seen order, and the year's ht total.
func (service *InvoiceService) MonthlySummary(year int, month int) (MonthlySummary, error) {
	if !ValidPeriod(year, month) {
		return MonthlySummary{}, ErrInvoicePeriodInvalid
	}
	settings, err := service.settings.Get()
	if err != nil {
		return MonthlySummary{}, err
	}
	netFactor := billing.NetFactor(settings.NetRatePercent)

	from, to := billing.MonthBounds(year, time.Month(month), service.location)
	monthJobs, err := service.jobs.ListStartingBetween(from, to)
	if err != nil {
		return MonthlySummary{}, err
	}
	yearFrom, yearTo := billing.YearBounds(year, service.location)
	yearJobs, err := service.jobs.ListStartingBetween(yearFrom, yearTo)
	if err != nil {
		return MonthlySummary{}, err
	}

	priced := billing.PriceJobs(monthJobs)
	summary := billing.SummarizeInvoice(priced, netFactor)

	jobsByClient := make(map[uint][]models.Job)
	for _, job := range monthJobs {
		jobsByClient[job.ClientID] = append(jobsByClient[job.ClientID], job)
	}

	cards := make([]ClientCard, 0, len(summary.Clients))
	for _, group := range summary.Clients {
		status, err := service.statuses.FindOrCreate(group.ClientID, year, month)
		if err != nil {
			return MonthlySummary{}, err
		}
		jobs := jobsByClient[group.ClientID]
		cards = append(cards, ClientCard{
			Client: jobs[0].Client,
			Jobs:   jobs,
			Priced: group.Jobs,
			Totals: group.Totals,
			Status: status,
		})
	}

	prev := from.AddDate(0, -1, 0)
	next := from.AddDate(0, 1, 0)
	return MonthlySummary{
		Year:         year,
		Month:        month,
		MonthLabel:   from.Format("January 2006"),
		Totals:       summary.Totals,
		Clients:      cards,
		YearTotalHT:  billing.TotalHT(billing.PriceJobs(yearJobs)),
		NetRateLabel: billing.NetRateLabel(settings.NetRatePercent),
		Currency:     settings.CurrencyCode,
		PrevYear:     prev.Year(),
		PrevMonth:    int(prev.Month()),
		NextYear:     next.Year(),
		NextMonth:    int(next.Month()),
	}, nil
}

// ClientMonth returns the card for one client, used for the PDF invoice.
func (service *InvoiceService) ClientMonth(clientID uint, year int, month int) (ClientCard, MonthlySummary, error) {
	summary, err := service.MonthlySummary(year, month)
	if err != nil {
		return ClientCard{}, MonthlySummary{}, err
	}
	for _, card := range summary.Clients {
		if card.Client.ID == clientID {
			return card, summary, nil
		}
	}
	return ClientCard{}, MonthlySummary{}, ErrInvoiceNoJobs
}

func (service *InvoiceService) ToggleFlag(clientID uint, year int, month int, field string) error {
	if !ValidPeriod(year, month) {
		return ErrInvoicePeriodInvalid
	}
	status, err := service.statuses.FindOrCreate(clientID, year, month)
	if err != nil {
		return err
	}

	switch field {
	case InvoiceFieldSent:
		return service.statuses.UpdateByID(status.ID, map[string]any{"sent": !status.Sent})
	case InvoiceFieldPaid:
		return service.statuses.UpdateByID(status.ID, map[string]any{"paid": !status.Paid})
	default:
		return ErrInvoiceFieldInvalid
	}
}

// SetInvoiceNumber stores a trimmed number; a blank number clears it.
func (service *InvoiceService) SetInvoiceNumber(clientID uint, year int, month int, raw string) error {
	if !ValidPeriod(year, month) {
		return ErrInvoicePeriodInvalid
	}
	status, err := service.statuses.FindOrCreate(clientID, year, month)
	if err != nil {
		return err
	}

	var number any
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		number = trimmed
	}
	return service.statuses.UpdateByID(status.ID, map[string]any{"invoice_number": number})
}
