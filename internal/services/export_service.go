package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

const exportTimeLayout = "2006-01-02 15:04"

var ExportCSVHeaders = []string{
	"Date",
	"Start",
	"End",
	"Client",
	"Role",
	"Mode",
	"Hours",
	"Amount",
	"VAT %",
	"Detail",
	"Invoice number",
}

type ExportService struct {
	invoices *InvoiceService
}

func NewExportService(invoices *InvoiceService) *ExportService {
	return &ExportService{invoices: invoices}
}

// WriteMonthCSV writes one row per job starting in the month, grouped by
// client like the monthly summary.
func (service *ExportService) WriteMonthCSV(w io.Writer, year int, month int) error {
	summary, err := service.invoices.MonthlySummary(year, month)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(ExportCSVHeaders); err != nil {
		return err
	}
	for _, card := range summary.Clients {
		invoiceNumber := ""
		if card.Status.InvoiceNumber != nil {
			invoiceNumber = *card.Status.InvoiceNumber
		}
		for index, job := range card.Jobs {
			priced := card.Priced[index]
			row := []string{
				priced.Start.Format("2006-01-02"),
				priced.Start.Format(exportTimeLayout),
				priced.End.Format(exportTimeLayout),
				card.Client.Name,
				job.Role.Name,
				job.Role.Mode,
				strconv.FormatFloat(priced.Hours, 'f', 2, 64),
				strconv.FormatFloat(priced.Amount, 'f', 2, 64),
				strconv.Itoa(priced.VATPercent),
				job.Detail,
				invoiceNumber,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func ExportFilename(year int, month int) string {
	return "jobs-" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01") + ".csv"
}
