package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

const sqliteDateLayout = "2006-01-02"

type HolidayRepository struct {
	database *gorm.DB
}

func NewHolidayRepository(database *gorm.DB) *HolidayRepository {
	return &HolidayRepository{database: database}
}

func (repo *HolidayRepository) List() ([]models.Holiday, error) {
	holidays := make([]models.Holiday, 0)
	err := repo.database.Order("date ASC").Find(&holidays).Error
	return holidays, err
}

// FindByDate matches on the calendar date prefix so rows written as plain
// dates and as timestamps both resolve.
func (repo *HolidayRepository) FindByDate(date time.Time) (models.Holiday, error) {
	var holiday models.Holiday
	if err := repo.database.
		Where("substr(date, 1, 10) = ?", date.Format(sqliteDateLayout)).
		First(&holiday).Error; err != nil {
		return models.Holiday{}, err
	}
	return holiday, nil
}

func (repo *HolidayRepository) Create(holiday *models.Holiday) error {
	return repo.database.Create(holiday).Error
}

func (repo *HolidayRepository) UpdateByID(holidayID uint, updates map[string]any) error {
	result := repo.database.Model(&models.Holiday{}).Where("id = ?", holidayID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *HolidayRepository) DeleteByID(holidayID uint) error {
	result := repo.database.Delete(&models.Holiday{}, holidayID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
