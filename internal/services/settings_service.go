package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/terraincognita07/freelancer-admin/internal/billing"
	"github.com/terraincognita07/freelancer-admin/internal/models"
)

var (
	ErrSettingsPasswordMissing = errors.New("settings password missing")
	ErrSettingsPasswordInvalid = errors.New("settings password invalid")
	ErrLoginPasswordNotSet     = errors.New("login password not set")
)

type SettingsRepository interface {
	Get() (models.Settings, error)
	UpdateByID(settingsID uint, updates map[string]any) error
}

// SettingsUpdate carries raw form values. A nil field means the key was not
// submitted and the stored value stays as it is.
type SettingsUpdate struct {
	CompanyLogoURL   *string
	FaviconURL       *string
	CalendarEmbedURL *string
	NightStartHour   *string
	NightEndHour     *string
	NetRatePercent   *string
	LoginEnabled     *bool
	LoginPassword    *string
	CurrencyCode     *string
	CalendarEnabled  *bool
	CalendarID       *string
}

type SettingsService struct {
	settings SettingsRepository
}

func NewSettingsService(settings SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (service *SettingsService) Get() (models.Settings, error) {
	return service.settings.Get()
}

func (service *SettingsService) Update(update SettingsUpdate) error {
	current, err := service.settings.Get()
	if err != nil {
		return err
	}

	updates := make(map[string]any)
	if update.CompanyLogoURL != nil {
		updates["company_logo_url"] = strings.TrimSpace(*update.CompanyLogoURL)
	}
	if update.FaviconURL != nil {
		updates["favicon_url"] = strings.TrimSpace(*update.FaviconURL)
	}
	if update.CalendarEmbedURL != nil {
		updates["google_calendar_embed_url"] = strings.TrimSpace(*update.CalendarEmbedURL)
	}
	if update.NightStartHour != nil {
		if hour, ok := parseHour(*update.NightStartHour); ok {
			updates["night_start_hour"] = hour
		}
	}
	if update.NightEndHour != nil {
		if hour, ok := parseHour(*update.NightEndHour); ok {
			updates["night_end_hour"] = hour
		}
	}
	if update.NetRatePercent != nil {
		updates["net_rate_percent"] = billing.ParsePercent(*update.NetRatePercent, billing.EffectiveNetRatePercent(current.NetRatePercent))
	}
	if update.LoginEnabled != nil {
		updates["login_enabled"] = *update.LoginEnabled
	}
	if update.LoginPassword != nil {
		if password := strings.TrimSpace(*update.LoginPassword); password != "" {
			hash, err := hashPassword(password)
			if err != nil {
				return err
			}
			updates["login_password_hash"] = hash
		}
	}
	if update.CurrencyCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*update.CurrencyCode))
		if code == "" {
			code = current.CurrencyCode
		}
		if code == "" {
			code = models.DefaultCurrencyCode
		}
		updates["currency_code"] = code
	}
	if update.CalendarEnabled != nil {
		updates["gcal_enabled"] = *update.CalendarEnabled
	}
	if update.CalendarID != nil {
		calendarID := strings.TrimSpace(*update.CalendarID)
		if calendarID == "" {
			calendarID = models.DefaultCalendarID
		}
		updates["gcal_calendar_id"] = calendarID
	}

	return service.settings.UpdateByID(current.ID, updates)
}

func (service *SettingsService) SetCalendarID(calendarID string) error {
	current, err := service.settings.Get()
	if err != nil {
		return err
	}
	return service.settings.UpdateByID(current.ID, map[string]any{"gcal_calendar_id": calendarID})
}

func (service *SettingsService) SetLogo(field string, url string) error {
	if field != "company_logo_url" && field != "favicon_url" {
		return fmt.Errorf("unsupported logo field %q", field)
	}
	current, err := service.settings.Get()
	if err != nil {
		return err
	}
	return service.settings.UpdateByID(current.ID, map[string]any{field: url})
}

// SetLoginPassword stores a new password hash and optionally turns the
// login gate on.
func (service *SettingsService) SetLoginPassword(rawPassword string, enableLogin bool) error {
	password := strings.TrimSpace(rawPassword)
	if password == "" {
		return ErrSettingsPasswordMissing
	}
	current, err := service.settings.Get()
	if err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	updates := map[string]any{"login_password_hash": hash}
	if enableLogin {
		updates["login_enabled"] = true
	}
	return service.settings.UpdateByID(current.ID, updates)
}

func (service *SettingsService) VerifyLoginPassword(settings models.Settings, rawPassword string) error {
	password := strings.TrimSpace(rawPassword)
	if password == "" {
		return ErrSettingsPasswordMissing
	}
	if settings.LoginPasswordHash == "" {
		return ErrLoginPasswordNotSet
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.LoginPasswordHash), []byte(password)) != nil {
		return ErrSettingsPasswordInvalid
	}
	return nil
}

func parseHour(raw string) (int, bool) {
	hour, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || hour < 0 || hour > 24 {
		return 0, false
	}
	return hour, true
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
