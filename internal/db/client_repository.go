package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

type ClientRepository struct {
	database *gorm.DB
}

func NewClientRepository(database *gorm.DB) *ClientRepository {
	return &ClientRepository{database: database}
}

func (repo *ClientRepository) ListWithRoles() ([]models.Client, error) {
	clients := make([]models.Client, 0)
	err := repo.database.
		Preload("Roles", func(tx *gorm.DB) *gorm.DB { return tx.Order("name ASC") }).
		Order("name ASC").
		Find(&clients).Error
	return clients, err
}

func (repo *ClientRepository) FindByID(clientID uint) (models.Client, error) {
	var client models.Client
	if err := repo.database.Preload("Roles").First(&client, clientID).Error; err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (repo *ClientRepository) Create(client *models.Client) error {
	return repo.database.Omit(clause.Associations).Create(client).Error
}

func (repo *ClientRepository) UpdateByID(clientID uint, updates map[string]any) error {
	return repo.database.Model(&models.Client{}).Where("id = ?", clientID).Updates(updates).Error
}
