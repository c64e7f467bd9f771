package models

// InvoiceStatus tracks one client's invoice for one calendar month.
type InvoiceStatus struct {
	ID            uint    `gorm:"primaryKey"`
	ClientID      uint    `gorm:"not null;uniqueIndex:uidx_invoice_status_period"`
	Year          int     `gorm:"not null;uniqueIndex:uidx_invoice_status_period"`
	Month         int     `gorm:"not null;uniqueIndex:uidx_invoice_status_period"`
	Sent          bool    `gorm:"not null"`
	Paid          bool    `gorm:"not null"`
	InvoiceNumber *string `gorm:"column:invoice_number"`
}

func (InvoiceStatus) TableName() string {
	return "invoice_status"
}
