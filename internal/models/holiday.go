package models

import "time"

type Holiday struct {
	ID            uint      `gorm:"primaryKey"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex"`
	Name          string    `gorm:"not null"`
	SurchargeText string
}

func (Holiday) TableName() string {
	return "holiday"
}
