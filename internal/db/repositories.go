package db

import "gorm.io/gorm"

type Repositories struct {
	Clients         *ClientRepository
	Roles           *RoleRepository
	Jobs            *JobRepository
	Holidays        *HolidayRepository
	InvoiceStatuses *InvoiceStatusRepository
	Settings        *SettingsRepository
	CalendarIntents *CalendarIntentRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Clients:         NewClientRepository(database),
		Roles:           NewRoleRepository(database),
		Jobs:            NewJobRepository(database),
		Holidays:        NewHolidayRepository(database),
		InvoiceStatuses: NewInvoiceStatusRepository(database),
		Settings:        NewSettingsRepository(database),
		CalendarIntents: NewCalendarIntentRepository(database),
	}
}
