package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type InvoiceStatusRepository struct {
	database *gorm.DB
}

func NewInvoiceStatusRepository(database *gorm.DB) *InvoiceStatusRepository {
	return &InvoiceStatusRepository{database: database}
}

// FindOrCreate returns the status row for a client month, inserting an
// unsent, unpaid row on first access. Repeated calls return the same row.
func (repo *InvoiceStatusRepository) FindOrCreate(clientID uint, year int, month int) (models.InvoiceStatus, error) {
	seed := models.InvoiceStatus{ClientID: clientID, Year: year, Month: month}
	if err := repo.database.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error; err != nil {
		return models.InvoiceStatus{}, err
	}

	var status models.InvoiceStatus
	if err := repo.database.
		Where("client_id = ? AND year = ? AND month = ?", clientID, year, month).
		Order("id ASC").
		First(&status).Error; err != nil {
		return models.InvoiceStatus{}, err
	}
	return status, nil
}

func (repo *InvoiceStatusRepository) UpdateByID(statusID uint, updates map[string]any) error {
	return repo.database.Model(&models.InvoiceStatus{}).Where("id = ?", statusID).Updates(updates).Error
}
