// Package pdf renders the monthly client invoice with maroto.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/terraincognita07/freelancer-admin/internal/services"
)

type InvoiceGenerator struct {
	companyName string
}

func NewInvoiceGenerator(companyName string) *InvoiceGenerator {
	return &InvoiceGenerator{companyName: companyName}
}

// Render lays out one client's jobs for the month followed by the ht, vat
// and gross totals.
func (g *InvoiceGenerator) Render(card services.ClientCard, summary services.MonthlySummary) ([]byte, error) {
	m := maroto.New(config.NewBuilder().Build())
	currency := summary.Currency

	m.AddRow(10,
		col.New(8).Add(text.New(g.companyName, props.Text{Size: 16, Style: fontstyle.Bold})),
		col.New(4).Add(text.New("INVOICE", props.Text{Size: 20, Style: fontstyle.BoldItalic, Align: align.Right})),
	)

	number := "draft"
	if card.Status.InvoiceNumber != nil {
		number = *card.Status.InvoiceNumber
	}
	m.AddRow(6,
		col.New(8).Add(text.New(fmt.Sprintf("Bill To: %s", card.Client.Name), props.Text{Size: 11, Style: fontstyle.Bold})),
		col.New(4).Add(text.New(fmt.Sprintf("Invoice #: %s", number), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
	)
	m.AddRow(5,
		col.New(8),
		col.New(4).Add(text.New(fmt.Sprintf("Period: %s", summary.MonthLabel), props.Text{Size: 9, Align: align.Right})),
	)

	m.AddRow(10)
	m.AddRow(8, headerCols()...)

	for _, job := range card.Priced {
		description := job.RoleName
		if job.Detail != "" {
			description += ", " + job.Detail
		}
		m.AddRow(6,
			col.New(2).Add(text.New(job.Start.Format("2006-01-02"), props.Text{Size: 8})),
			col.New(5).Add(text.New(description, props.Text{Size: 8})),
			col.New(1).Add(text.New(fmt.Sprintf("%.2f", job.Hours), props.Text{Size: 8, Align: align.Right})),
			col.New(1).Add(text.New(fmt.Sprintf("%d%%", job.VATPercent), props.Text{Size: 8, Align: align.Right})),
			col.New(3).Add(text.New(money(currency, decimal.NewFromFloat(job.Amount)), props.Text{Size: 8, Align: align.Right})),
		)
	}

	m.AddRow(8)
	m.AddRow(6, totalCols("Total excl. VAT:", money(currency, card.Totals.HT), false)...)
	m.AddRow(6, totalCols("VAT:", money(currency, card.Totals.VAT), false)...)
	m.AddRow(8, totalCols("Total:", money(currency, card.Totals.Gross), true)...)

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return document.GetBytes(), nil
}

func headerCols() []core.Col {
	bold := props.Text{Size: 9, Style: fontstyle.Bold}
	boldRight := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	return []core.Col{
		col.New(2).Add(text.New("Date", bold)),
		col.New(5).Add(text.New("Description", bold)),
		col.New(1).Add(text.New("Hours", boldRight)),
		col.New(1).Add(text.New("VAT", boldRight)),
		col.New(3).Add(text.New("Amount", boldRight)),
	}
}

func totalCols(label string, value string, emphasize bool) []core.Col {
	size := 9.0
	if emphasize {
		size = 10
	}
	return []core.Col{
		col.New(6),
		col.New(3).Add(text.New(label, props.Text{Size: size, Style: fontstyle.Bold})),
		col.New(3).Add(text.New(value, props.Text{Size: size, Style: fontstyle.Bold, Align: align.Right})),
	}
}

func money(currency string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}

// Filename is the download name for a client's monthly invoice.
func Filename(clientID uint, year int, month int) string {
	return fmt.Sprintf("invoice-%d-%04d-%02d.pdf", clientID, year, month)
}
