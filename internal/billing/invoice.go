package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

// PricedJob is a job reduced to what the aggregators need.
type PricedJob struct {
	JobID      uint
	ClientID   uint
	ClientName string
	RoleName   string
	Detail     string
	Start      time.Time
	End        time.Time
	Hours      float64
	Amount     float64
	VATPercent int
}

type Totals struct {
	HT    decimal.Decimal `json:"ht"`
	VAT   decimal.Decimal `json:"vat"`
	Gross decimal.Decimal `json:"gross"`
	Net   decimal.Decimal `json:"net"`
}

type ClientInvoice struct {
	ClientID   uint        `json:"client_id"`
	ClientName string      `json:"client_name"`
	Jobs       []PricedJob `json:"-"`
	Totals     Totals      `json:"totals"`
}

type InvoiceSummary struct {
	Totals  Totals          `json:"totals"`
	Clients []ClientInvoice `json:"clients"`
}

func PriceJob(job models.Job) PricedJob {
	return PricedJob{
		JobID:      job.ID,
		ClientID:   job.ClientID,
		ClientName: job.Client.Name,
		RoleName:   job.Role.Name,
		Detail:     job.Detail,
		Start:      job.StartAt,
		End:        job.EndAt,
		Hours:      DurationHours(job.StartAt, job.EndAt),
		Amount:     JobAmount(job),
		VATPercent: JobVATPercent(job),
	}
}

func PriceJobs(jobs []models.Job) []PricedJob {
	priced := make([]PricedJob, 0, len(jobs))
	for _, job := range jobs {
		priced = append(priced, PriceJob(job))
	}
	return priced
}

// MonthBounds returns the half-open interval [first of month, first of next month).
func MonthBounds(year int, month time.Month, location *time.Location) (time.Time, time.Time) {
	if location == nil {
		location = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, location)
	return start, start.AddDate(0, 1, 0)
}

func YearBounds(year int, location *time.Location) (time.Time, time.Time) {
	if location == nil {
		location = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, location)
	return start, start.AddDate(1, 0, 0)
}

func JobsInPeriod(jobs []PricedJob, from time.Time, to time.Time) []PricedJob {
	filtered := make([]PricedJob, 0, len(jobs))
	for _, job := range jobs {
		if !job.Start.Before(from) && job.Start.Before(to) {
			filtered = append(filtered, job)
		}
	}
	return filtered
}

// SumTotals folds jobs into ht, vat, gross and net. Sums are exact; the net
// factor is applied once to the ht sum.
func SumTotals(jobs []PricedJob, netFactor float64) Totals {
	ht := decimal.Zero
	vat := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for _, job := range jobs {
		amount := decimal.NewFromFloat(job.Amount)
		ht = ht.Add(amount)
		vat = vat.Add(decimal.NewFromInt(int64(job.VATPercent)).Div(hundred).Mul(amount))
	}
	return Totals{
		HT:    ht,
		VAT:   vat,
		Gross: ht.Add(vat),
		Net:   ht.Mul(decimal.NewFromFloat(netFactor)),
	}
}

// SummarizeInvoice groups jobs by client in first-seen order.
func SummarizeInvoice(jobs []PricedJob, netFactor float64) InvoiceSummary {
	order := make([]uint, 0)
	grouped := make(map[uint][]PricedJob)
	for _, job := range jobs {
		if _, seen := grouped[job.ClientID]; !seen {
			order = append(order, job.ClientID)
		}
		grouped[job.ClientID] = append(grouped[job.ClientID], job)
	}

	clients := make([]ClientInvoice, 0, len(order))
	for _, clientID := range order {
		items := grouped[clientID]
		clients = append(clients, ClientInvoice{
			ClientID:   clientID,
			ClientName: items[0].ClientName,
			Jobs:       items,
			Totals:     SumTotals(items, netFactor),
		})
	}

	return InvoiceSummary{
		Totals:  SumTotals(jobs, netFactor),
		Clients: clients,
	}
}

func TotalHT(jobs []PricedJob) decimal.Decimal {
	return SumTotals(jobs, 0).HT
}
