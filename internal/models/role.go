package models

const (
	RoleModeHourly     = "hourly"
	RoleModeProduction = "production"
	RoleModeDaily      = "daily"
	RoleModeWeekly     = "weekly"
)

// Role is a client-specific billing definition. Archived roles keep Active=false
// so historical jobs still resolve their pricing.
type Role struct {
	ID         uint    `gorm:"primaryKey"`
	ClientID   uint    `gorm:"not null;index"`
	Name       string  `gorm:"not null"`
	Mode       string  `gorm:"not null"`
	Rate       float64 `gorm:"column:rate_sek;not null"`
	VATPercent *int
	Active     bool    `gorm:"not null"`
	Client     *Client `gorm:"foreignKey:ClientID"`
}

func (Role) TableName() string {
	return "role"
}

func RoleModes() []string {
	return []string{RoleModeHourly, RoleModeProduction, RoleModeDaily, RoleModeWeekly}
}
