package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

// Get returns the singleton settings row, creating it with defaults when
// the table is empty.
func (repo *SettingsRepository) Get() (models.Settings, error) {
	var settings models.Settings
	err := repo.database.Order("id ASC").Limit(1).Find(&settings).Error
	if err != nil {
		return models.Settings{}, err
	}
	if settings.ID != 0 {
		return settings, nil
	}

	defaults := models.DefaultSettings()
	if err := repo.database.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return models.Settings{}, err
	}
	if err := repo.database.Order("id ASC").First(&settings).Error; err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (repo *SettingsRepository) UpdateByID(settingsID uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return repo.database.Model(&models.Settings{}).Where("id = ?", settingsID).Updates(updates).Error
}
