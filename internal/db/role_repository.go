package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type RoleRepository struct {
	database *gorm.DB
}

func NewRoleRepository(database *gorm.DB) *RoleRepository {
	return &RoleRepository{database: database}
}

func (repo *RoleRepository) FindByID(roleID uint) (models.Role, error) {
	var role models.Role
	if err := repo.database.First(&role, roleID).Error; err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (repo *RoleRepository) Create(role *models.Role) error {
	return repo.database.Omit(clause.Associations).Create(role).Error
}

func (repo *RoleRepository) UpdateByID(roleID uint, updates map[string]any) error {
	return repo.database.Model(&models.Role{}).Where("id = ?", roleID).Updates(updates).Error
}

func (repo *RoleRepository) SetActive(roleID uint, active bool) error {
	result := repo.database.Model(&models.Role{}).Where("id = ?", roleID).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
