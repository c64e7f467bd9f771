package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/terraincognita07/freelancer-admin/internal/billing"
	"github.com/terraincognita07/freelancer-admin/internal/calendar"
	"github.com/terraincognita07/freelancer-admin/internal/db"
	"github.com/terraincognita07/freelancer-admin/internal/logging"
	"github.com/terraincognita07/freelancer-admin/internal/models"
	"github.com/terraincognita07/freelancer-admin/internal/pdf"
	"github.com/terraincognita07/freelancer-admin/internal/services"
	"github.com/terraincognita07/freelancer-admin/internal/storage"
)

var templatePages = []string{
	"login",
	"jobs",
	"monthly",
	"clients",
	"edit_client",
	"settings",
	"calendar",
	"statistics",
}

// CalendarConnector is the part of calendar.Provider the settings pages
// drive.
type CalendarConnector interface {
	services.CalendarClientSource
	HasCredentials(ctx context.Context) bool
	HasToken(ctx context.Context) bool
	SaveCredentials(ctx context.Context, raw []byte) error
	Disconnect(ctx context.Context) error
	AuthCodeURL(ctx context.Context, redirectURL string, state string) (string, error)
	Exchange(ctx context.Context, redirectURL string, code string) error
}

type Config struct {
	AppName           string
	SecretKey         string
	Location          *time.Location
	CookieSecure      bool
	DefaultVATPercent int
	Templates         fs.FS
	Logger            logging.Logger
}

type Dependencies struct {
	Repositories *db.Repositories
	Uploads      storage.Store
	Calendar     CalendarConnector
}

type Handler struct {
	appName      string
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	defaultVAT   int
	templates    map[string]*template.Template
	loginLimiter *attemptLimiter
	logger       logging.Logger
	now          func() time.Time

	settings     *services.SettingsService
	clients      *services.ClientService
	holidays     *services.HolidayService
	jobs         *services.JobService
	invoices     *services.InvoiceService
	stats        *services.StatsService
	exports      *services.ExportService
	calendarSync *services.CalendarSyncService
	calendar     CalendarConnector
	uploads      storage.Store
	invoicePDF   *pdf.InvoiceGenerator
}

func NewHandler(cfg Config, deps Dependencies) (*Handler, error) {
	if deps.Repositories == nil {
		return nil, errors.New("repositories are required")
	}
	if deps.Uploads == nil {
		return nil, errors.New("upload store is required")
	}
	if cfg.Templates == nil {
		return nil, errors.New("templates are required")
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	defaultVAT := cfg.DefaultVATPercent
	if defaultVAT <= 0 || defaultVAT > 100 {
		defaultVAT = models.DefaultVATPercent
	}
	connector := deps.Calendar
	if connector == nil {
		connector = calendar.NewProvider(deps.Uploads, calendar.DefaultBaseURL)
	}

	templates := make(map[string]*template.Template, len(templatePages))
	for _, page := range templatePages {
		parsed, err := template.New("base").Funcs(templateFuncs()).ParseFS(cfg.Templates, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = parsed
	}

	repos := deps.Repositories
	calendarSync := services.NewCalendarSyncService(repos.CalendarIntents, repos.Jobs, repos.Settings, connector, logger, location)
	invoices := services.NewInvoiceService(repos.Jobs, repos.InvoiceStatuses, repos.Settings, location)

	return &Handler{
		appName:      cfg.AppName,
		secretKey:    []byte(cfg.SecretKey),
		location:     location,
		cookieSecure: cfg.CookieSecure,
		defaultVAT:   defaultVAT,
		templates:    templates,
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
		logger:       logger,
		now:          time.Now,

		settings:     services.NewSettingsService(repos.Settings),
		clients:      services.NewClientService(repos.Clients, repos.Roles),
		holidays:     services.NewHolidayService(repos.Holidays),
		jobs:         services.NewJobService(repos.Jobs, repos.Roles, repos.Holidays, repos.Settings, calendarSync, logger, location),
		invoices:     invoices,
		stats:        services.NewStatsService(repos.Jobs, repos.Settings, location),
		exports:      services.NewExportService(invoices),
		calendarSync: calendarSync,
		calendar:     connector,
		uploads:      deps.Uploads,
		invoicePDF:   pdf.NewInvoiceGenerator(cfg.AppName),
	}, nil
}

// CalendarSync exposes the outbox worker so main can run it alongside the
// server.
func (handler *Handler) CalendarSync() *services.CalendarSyncService {
	return handler.calendarSync
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(value time.Time, layout string) string {
			if value.IsZero() {
				return ""
			}
			return value.Format(layout)
		},
		"formatFloat": func(value float64) string {
			return fmt.Sprintf("%.2f", value)
		},
		"formatMoney": formatMoney,
		"jobAmount":   billing.JobAmount,
		"jobTable": func(jobs []models.Job, csrf string) map[string]any {
			return map[string]any{"Jobs": jobs, "CSRFToken": csrf}
		},
		"deref": func(value *string) string {
			if value == nil {
				return ""
			}
			return *value
		},
		"derefInt": func(value *int, fallback int) int {
			if value == nil {
				return fallback
			}
			return *value
		},
		"isActiveRoute": func(currentPath string, route string) bool {
			path := strings.TrimSpace(currentPath)
			if route == "/" {
				return path == "/" || path == "" || strings.HasPrefix(path, "/?")
			}
			return path == route || strings.HasPrefix(path, route+"?") || strings.HasPrefix(path, route+"/")
		},
		"toJSON": func(value any) template.JS {
			serialized, _ := json.Marshal(value)
			return template.JS(serialized)
		},
	}
}

func formatMoney(value any) string {
	switch typed := value.(type) {
	case decimal.Decimal:
		return typed.StringFixed(2)
	case float64:
		return decimal.NewFromFloat(typed).StringFixed(2)
	case int:
		return decimal.NewFromInt(int64(typed)).StringFixed(2)
	default:
		return fmt.Sprint(value)
	}
}
