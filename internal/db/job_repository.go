package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type JobRepository struct {
	database *gorm.DB
}

func NewJobRepository(database *gorm.DB) *JobRepository {
	return &JobRepository{database: database}
}

func (repo *JobRepository) withRelations() *gorm.DB {
	return repo.database.Preload("Client").Preload("Role")
}

func (repo *JobRepository) Create(job *models.Job) error {
	return repo.database.Omit(clause.Associations).Create(job).Error
}

func (repo *JobRepository) FindByID(jobID uint) (models.Job, error) {
	var job models.Job
	if err := repo.withRelations().First(&job, jobID).Error; err != nil {
		return models.Job{}, err
	}
	return job, nil
}

func (repo *JobRepository) DeleteByID(jobID uint) error {
	result := repo.database.Delete(&models.Job{}, jobID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (repo *JobRepository) UpdateCalendarEventID(jobID uint, eventID string) error {
	return repo.database.Model(&models.Job{}).Where("id = ?", jobID).Update("gcal_event_id", eventID).Error
}

func (repo *JobRepository) ListUpcoming(now time.Time) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	err := repo.withRelations().
		Where("end_dt >= ?", now).
		Order("start_dt ASC").
		Find(&jobs).Error
	return jobs, err
}

func (repo *JobRepository) ListPast(now time.Time, limit int) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	err := repo.withRelations().
		Where("end_dt < ?", now).
		Order("start_dt DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// ListStartingBetween returns jobs whose start falls in [from, to).
func (repo *JobRepository) ListStartingBetween(from time.Time, to time.Time) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	err := repo.withRelations().
		Where("start_dt >= ? AND start_dt < ?", from, to).
		Order("start_dt ASC, id ASC").
		Find(&jobs).Error
	return jobs, err
}

// ListYears reads the year from the stored wall-clock text so that rows
// written with and without a UTC offset agree.
func (repo *JobRepository) ListYears() ([]int, error) {
	var years []int
	err := repo.database.
		Raw(`SELECT DISTINCT CAST(substr(start_dt, 1, 4) AS INTEGER) AS year FROM job ORDER BY year ASC`).
		Scan(&years).Error
	return years, err
}
