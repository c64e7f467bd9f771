package models

const (
	DefaultNightStartHour = 0
	DefaultNightEndHour   = 8
	DefaultNetRatePercent = 70.0
	DefaultCalendarID     = "primary"
	DefaultCurrencyCode   = "SEK"
)

// Settings is the process-wide configuration row. Exactly one row exists.
type Settings struct {
	ID                uint    `gorm:"primaryKey"`
	CompanyLogoURL    string  `gorm:"column:company_logo_url"`
	FaviconURL        string  `gorm:"column:favicon_url"`
	NightStartHour    int     `gorm:"not null"`
	NightEndHour      int     `gorm:"not null"`
	CalendarEmbedURL  string  `gorm:"column:google_calendar_embed_url"`
	NetRatePercent    float64 `gorm:"not null"`
	LoginEnabled      bool    `gorm:"not null"`
	LoginPasswordHash string  `gorm:"column:login_password_hash"`
	CalendarEnabled   bool    `gorm:"column:gcal_enabled;not null"`
	CalendarID        string  `gorm:"column:gcal_calendar_id"`
	CurrencyCode      string  `gorm:"not null"`
}

func (Settings) TableName() string {
	return "settings"
}

func DefaultSettings() Settings {
	return Settings{
		ID:             1,
		NightStartHour: DefaultNightStartHour,
		NightEndHour:   DefaultNightEndHour,
		NetRatePercent: DefaultNetRatePercent,
		CalendarID:     DefaultCalendarID,
		CurrencyCode:   DefaultCurrencyCode,
	}
}

func (settings Settings) EffectiveCalendarID() string {
	if settings.CalendarID == "" {
		return DefaultCalendarID
	}
	return settings.CalendarID
}
