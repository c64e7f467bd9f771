package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type CalendarIntentRepository struct {
	database *gorm.DB
}

func NewCalendarIntentRepository(database *gorm.DB) *CalendarIntentRepository {
	return &CalendarIntentRepository{database: database}
}

func (repo *CalendarIntentRepository) Create(intent *models.CalendarIntent) error {
	return repo.database.Create(intent).Error
}

func (repo *CalendarIntentRepository) FindByID(intentID string) (models.CalendarIntent, error) {
	var intent models.CalendarIntent
	if err := repo.database.Where("id = ?", intentID).First(&intent).Error; err != nil {
		return models.CalendarIntent{}, err
	}
	return intent, nil
}

// ListPending returns pending intents oldest first.
func (repo *CalendarIntentRepository) ListPending(limit int) ([]models.CalendarIntent, error) {
	intents := make([]models.CalendarIntent, 0)
	err := repo.database.
		Where("status = ?", models.CalendarIntentPending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&intents).Error
	return intents, err
}

func (repo *CalendarIntentRepository) UpdateStatus(intentID string, status string, attempts int, lastError string, now time.Time) error {
	return repo.database.Model(&models.CalendarIntent{}).Where("id = ?", intentID).Updates(map[string]any{
		"status":     status,
		"attempts":   attempts,
		"last_error": lastError,
		"updated_at": now,
	}).Error
}
