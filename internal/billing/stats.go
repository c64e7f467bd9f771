package billing

import (
	"math"
	"sort"
)

var MonthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// YearStats is the chart payload served by the statistics endpoint. Each
// series holds twelve monthly values per client.
type YearStats struct {
	Months         []string         `json:"months"`
	ClientsHours   []string         `json:"clients_hours"`
	ClientsJobs    []string         `json:"clients_jobs"`
	ClientsRevenue []string         `json:"clients_revenue"`
	Hours          map[string][]int `json:"hours"`
	Jobs           map[string][]int `json:"jobs"`
	Revenue        map[string][]int `json:"revenue"`
}

type YearTotals struct {
	Hours   int `json:"hours_year"`
	Jobs    int `json:"jobs_year"`
	Revenue int `json:"revenue_year"`
}

type monthlySeries map[string]*[12]float64

// BuildYearStats buckets jobs by start month and client name. Clients are
// ordered per metric by descending yearly total, ties by name.
func BuildYearStats(jobs []PricedJob, netFactor float64) YearStats {
	hours := make(monthlySeries)
	counts := make(monthlySeries)
	revenue := make(monthlySeries)

	for _, job := range jobs {
		index := int(job.Start.Month()) - 1
		hours.add(job.ClientName, index, job.Hours)
		counts.add(job.ClientName, index, 1)
		revenue.add(job.ClientName, index, job.Amount*netFactor)
	}

	clientsHours := hours.orderedClients()
	clientsJobs := counts.orderedClients()
	clientsRevenue := revenue.orderedClients()

	return YearStats{
		Months:         append([]string(nil), MonthLabels...),
		ClientsHours:   clientsHours,
		ClientsJobs:    clientsJobs,
		ClientsRevenue: clientsRevenue,
		Hours:          hours.rounded(),
		Jobs:           counts.rounded(),
		Revenue:        revenue.rounded(),
	}
}

func SummarizeYear(jobs []PricedJob, netFactor float64) YearTotals {
	totalHours := 0.0
	totalAmount := 0.0
	for _, job := range jobs {
		totalHours += job.Hours
		totalAmount += job.Amount
	}
	return YearTotals{
		Hours:   roundHalfEven(totalHours),
		Jobs:    len(jobs),
		Revenue: roundHalfEven(totalAmount * netFactor),
	}
}

func (series monthlySeries) add(client string, monthIndex int, value float64) {
	values, ok := series[client]
	if !ok {
		values = &[12]float64{}
		series[client] = values
	}
	values[monthIndex] += value
}

func (series monthlySeries) orderedClients() []string {
	clients := make([]string, 0, len(series))
	totals := make(map[string]float64, len(series))
	for client, values := range series {
		clients = append(clients, client)
		for _, value := range values {
			totals[client] += value
		}
	}
	sort.Strings(clients)
	sort.SliceStable(clients, func(i, j int) bool {
		return totals[clients[i]] > totals[clients[j]]
	})
	return clients
}

func (series monthlySeries) rounded() map[string][]int {
	out := make(map[string][]int, len(series))
	for client, values := range series {
		row := make([]int, len(values))
		for index, value := range values {
			row[index] = roundHalfEven(value)
		}
		out[client] = row
	}
	return out
}

func roundHalfEven(value float64) int {
	return int(math.RoundToEven(value))
}
