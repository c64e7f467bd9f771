package models

import "time"

type Job struct {
	ID              uint      `gorm:"primaryKey"`
	ClientID        uint      `gorm:"not null;index"`
	RoleID          uint      `gorm:"not null;index"`
	StartAt         time.Time `gorm:"column:start_dt;not null;index"`
	EndAt           time.Time `gorm:"column:end_dt;not null"`
	VATPercent      int       `gorm:"not null"`
	Detail          string
	CalendarEventID string `gorm:"column:gcal_event_id"`
	Client          Client `gorm:"foreignKey:ClientID"`
	Role            Role   `gorm:"foreignKey:RoleID"`
}

func (Job) TableName() string {
	return "job"
}
