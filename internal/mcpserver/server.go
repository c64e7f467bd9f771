// Package mcpserver exposes read-only billing tools over the Model Context
// Protocol so an assistant can price work and read invoices.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/terraincognita07/freelancer-admin/internal/billing"
	"github.com/terraincognita07/freelancer-admin/internal/db"
	"github.com/terraincognita07/freelancer-admin/internal/models"
	"github.com/terraincognita07/freelancer-admin/internal/services"
)

const (
	ServerName    = "freelancer-admin"
	ServerVersion = "1.0.0"
)

var errTimeFormat = errors.New("times must look like 2024-03-01 09:00")

type Tools struct {
	clients  *services.ClientService
	holidays *services.HolidayService
	settings *services.SettingsService
	invoices *services.InvoiceService
	stats    *services.StatsService
	location *time.Location
}

func NewTools(repos *db.Repositories, location *time.Location) *Tools {
	if location == nil {
		location = time.Local
	}
	return &Tools{
		clients:  services.NewClientService(repos.Clients, repos.Roles),
		holidays: services.NewHolidayService(repos.Holidays),
		settings: services.NewSettingsService(repos.Settings),
		invoices: services.NewInvoiceService(repos.Jobs, repos.InvoiceStatuses, repos.Settings, location),
		stats:    services.NewStatsService(repos.Jobs, repos.Settings, location),
		location: location,
	}
}

// NewServer builds an MCP server with every billing tool registered.
func NewServer(tools *Tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)
	tools.Register(server)
	return server
}

// Run serves the tools on stdin/stdout until ctx is done or the client
// disconnects.
func Run(ctx context.Context, tools *Tools) error {
	return NewServer(tools).Run(ctx, &mcp.StdioTransport{})
}

type PriceJobArgs struct {
	Mode  string  `json:"mode" jsonschema:"Billing mode: hourly, production, daily or weekly"`
	Rate  float64 `json:"rate" jsonschema:"Rate for the mode"`
	Start string  `json:"start" jsonschema:"Start as YYYY-MM-DD HH:MM wall-clock time"`
	End   string  `json:"end" jsonschema:"End as YYYY-MM-DD HH:MM wall-clock time"`
}

type PriceJobResult struct {
	Amount float64  `json:"amount"`
	Hours  float64  `json:"hours"`
	Flags  []string `json:"flags"`
}

type MonthArgs struct {
	Year  int `json:"year" jsonschema:"Calendar year"`
	Month int `json:"month" jsonschema:"Month 1-12"`
}

type YearArgs struct {
	Year int `json:"year" jsonschema:"Calendar year"`
}

type ListClientsArgs struct{}

type ClientSummary struct {
	ClientID      uint   `json:"client_id"`
	Name          string `json:"name"`
	Jobs          int    `json:"jobs"`
	HT            string `json:"ht"`
	Gross         string `json:"gross"`
	Net           string `json:"net"`
	Sent          bool   `json:"sent"`
	Paid          bool   `json:"paid"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
}

type MonthResult struct {
	Month    string          `json:"month"`
	Currency string          `json:"currency"`
	HT       string          `json:"ht"`
	Gross    string          `json:"gross"`
	Net      string          `json:"net"`
	YearHT   string          `json:"year_ht"`
	Clients  []ClientSummary `json:"clients"`
}

type RoleSummary struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Mode   string  `json:"mode"`
	Rate   float64 `json:"rate"`
	Active bool    `json:"active"`
}

type ClientListing struct {
	ID    uint          `json:"id"`
	Name  string        `json:"name"`
	VAT   int           `json:"default_vat_percent"`
	Roles []RoleSummary `json:"roles"`
}

func (tools *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "price_job",
		Description: "Price a single engagement and list its surcharge flags (holiday, night hours)",
	}, tools.PriceJob)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "monthly_summary",
		Description: "Invoice totals per client for one month",
	}, tools.MonthlySummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "year_stats",
		Description: "Monthly hours, job counts and net revenue per client for one year",
	}, tools.YearStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_clients",
		Description: "List clients with their billing roles",
	}, tools.ListClients)
}

func (tools *Tools) PriceJob(ctx context.Context, req *mcp.CallToolRequest, args PriceJobArgs) (*mcp.CallToolResult, any, error) {
	if !services.IsKnownRoleMode(args.Mode) {
		return nil, nil, fmt.Errorf("unknown mode %q", args.Mode)
	}
	start, err := tools.parseTime(args.Start)
	if err != nil {
		return nil, nil, err
	}
	end, err := tools.parseTime(args.End)
	if err != nil {
		return nil, nil, err
	}

	settings, err := tools.settings.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	holidays, err := tools.holidays.List()
	if err != nil {
		return nil, nil, fmt.Errorf("load holidays: %w", err)
	}

	result := PriceJobResult{
		Amount: billing.Amount(args.Mode, args.Rate, start, end),
		Hours:  billing.DurationHours(start, end),
		Flags:  billing.SurchargeFlags(start, end, holidays, settings.NightStartHour, settings.NightEndHour),
	}
	text := fmt.Sprintf("%.2f %s for %.2f hours", result.Amount, currency(settings), result.Hours)
	if len(result.Flags) > 0 {
		text += " (" + strings.Join(result.Flags, " & ") + ")"
	}
	return textResult(text), result, nil
}

func (tools *Tools) MonthlySummary(ctx context.Context, req *mcp.CallToolRequest, args MonthArgs) (*mcp.CallToolResult, any, error) {
	summary, err := tools.invoices.MonthlySummary(args.Year, args.Month)
	if err != nil {
		return nil, nil, fmt.Errorf("monthly summary: %w", err)
	}

	result := MonthResult{
		Month:    summary.MonthLabel,
		Currency: summary.Currency,
		HT:       summary.Totals.HT.StringFixed(2),
		Gross:    summary.Totals.Gross.StringFixed(2),
		Net:      summary.Totals.Net.StringFixed(2),
		YearHT:   summary.YearTotalHT.StringFixed(2),
		Clients:  make([]ClientSummary, 0, len(summary.Clients)),
	}
	for _, card := range summary.Clients {
		client := ClientSummary{
			ClientID: card.Client.ID,
			Name:     card.Client.Name,
			Jobs:     len(card.Jobs),
			HT:       card.Totals.HT.StringFixed(2),
			Gross:    card.Totals.Gross.StringFixed(2),
			Net:      card.Totals.Net.StringFixed(2),
			Sent:     card.Status.Sent,
			Paid:     card.Status.Paid,
		}
		if card.Status.InvoiceNumber != nil {
			client.InvoiceNumber = *card.Status.InvoiceNumber
		}
		result.Clients = append(result.Clients, client)
	}

	text := fmt.Sprintf("%s: %s %s excl. VAT, %s incl. VAT, %d clients",
		result.Month, result.HT, result.Currency, result.Gross, len(result.Clients))
	return textResult(text), result, nil
}

func (tools *Tools) YearStats(ctx context.Context, req *mcp.CallToolRequest, args YearArgs) (*mcp.CallToolResult, any, error) {
	if args.Year < 1 || args.Year > 9999 {
		return nil, nil, fmt.Errorf("invalid year %d", args.Year)
	}
	stats, err := tools.stats.YearStats(args.Year)
	if err != nil {
		return nil, nil, fmt.Errorf("year stats: %w", err)
	}
	encoded, err := json.Marshal(stats)
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(encoded)), stats, nil
}

func (tools *Tools) ListClients(ctx context.Context, req *mcp.CallToolRequest, args ListClientsArgs) (*mcp.CallToolResult, any, error) {
	clients, err := tools.clients.List()
	if err != nil {
		return nil, nil, fmt.Errorf("list clients: %w", err)
	}

	listing := make([]ClientListing, 0, len(clients))
	var text strings.Builder
	fmt.Fprintf(&text, "Found %d clients:\n", len(clients))
	for _, client := range clients {
		entry := ClientListing{ID: client.ID, Name: client.Name, VAT: client.DefaultVATPercent}
		active := 0
		for _, role := range client.Roles {
			entry.Roles = append(entry.Roles, RoleSummary{
				ID:     role.ID,
				Name:   role.Name,
				Mode:   role.Mode,
				Rate:   role.Rate,
				Active: role.Active,
			})
			if role.Active {
				active++
			}
		}
		listing = append(listing, entry)
		fmt.Fprintf(&text, "- %s (%d active roles)\n", client.Name, active)
	}
	return textResult(text.String()), listing, nil
}

func (tools *Tools) parseTime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, trimmed, tools.location); err == nil {
			return services.WallClock(parsed, tools.location), nil
		}
	}
	return time.Time{}, errTimeFormat
}

func currency(settings models.Settings) string {
	if settings.CurrencyCode == "" {
		return models.DefaultCurrencyCode
	}
	return settings.CurrencyCode
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
