package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

var (
	ErrClientNameRequired = errors.New("client name required")
	ErrRoleNameRequired   = errors.New("role name required")
	ErrRoleModeInvalid    = errors.New("role mode invalid")
	ErrRoleRateInvalid    = errors.New("role rate invalid")
	ErrVATPercentInvalid  = errors.New("vat percent invalid")
)

type ClientRepository interface {
	ListWithRoles() ([]models.Client, error)
	FindByID(clientID uint) (models.Client, error)
	Create(client *models.Client) error
	UpdateByID(clientID uint, updates map[string]any) error
}

type RoleRepository interface {
	FindByID(roleID uint) (models.Role, error)
	Create(role *models.Role) error
	UpdateByID(roleID uint, updates map[string]any) error
	SetActive(roleID uint, active bool) error
}

type ClientInput struct {
	Name              string
	DefaultVATPercent int
	LogoURL           string
}

type RoleInput struct {
	ClientID   uint
	Name       string
	Mode       string
	Rate       float64
	VATPercent int
}

// RoleOption is one entry of the role picker on the job form.
type RoleOption struct {
	ID   uint    `json:"id"`
	Name string  `json:"name"`
	Mode string  `json:"mode"`
	Rate float64 `json:"rate"`
}

type ClientService struct {
	clients ClientRepository
	roles   RoleRepository
}

func NewClientService(clients ClientRepository, roles RoleRepository) *ClientService {
	return &ClientService{clients: clients, roles: roles}
}

func (service *ClientService) List() ([]models.Client, error) {
	return service.clients.ListWithRoles()
}

func (service *ClientService) Find(clientID uint) (models.Client, error) {
	return service.clients.FindByID(clientID)
}

func (service *ClientService) CreateClient(input ClientInput) (models.Client, error) {
	if err := validateClientInput(input); err != nil {
		return models.Client{}, err
	}
	client := models.Client{
		Name:              strings.TrimSpace(input.Name),
		DefaultVATPercent: input.DefaultVATPercent,
		LogoURL:           strings.TrimSpace(input.LogoURL),
	}
	if err := service.clients.Create(&client); err != nil {
		return models.Client{}, err
	}
	return client, nil
}

// UpdateClient keeps the stored logo when input.LogoURL is empty and
// keepLogo is set, which is the case for an edit without a new upload.
func (service *ClientService) UpdateClient(clientID uint, input ClientInput, keepLogo bool) error {
	if err := validateClientInput(input); err != nil {
		return err
	}
	if _, err := service.clients.FindByID(clientID); err != nil {
		return err
	}

	updates := map[string]any{
		"name":                strings.TrimSpace(input.Name),
		"default_vat_percent": input.DefaultVATPercent,
	}
	if logo := strings.TrimSpace(input.LogoURL); logo != "" || !keepLogo {
		updates["logo_url"] = logo
	}
	return service.clients.UpdateByID(clientID, updates)
}

func (service *ClientService) AddRole(input RoleInput) (models.Role, error) {
	if err := validateRoleInput(input); err != nil {
		return models.Role{}, err
	}
	if _, err := service.clients.FindByID(input.ClientID); err != nil {
		return models.Role{}, err
	}

	vat := input.VATPercent
	role := models.Role{
		ClientID:   input.ClientID,
		Name:       strings.TrimSpace(input.Name),
		Mode:       input.Mode,
		Rate:       input.Rate,
		VATPercent: &vat,
		Active:     true,
	}
	if err := service.roles.Create(&role); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (service *ClientService) UpdateRole(roleID uint, input RoleInput) error {
	if err := validateRoleInput(input); err != nil {
		return err
	}
	if _, err := service.roles.FindByID(roleID); err != nil {
		return err
	}
	return service.roles.UpdateByID(roleID, map[string]any{
		"name":        strings.TrimSpace(input.Name),
		"mode":        input.Mode,
		"rate_sek":    input.Rate,
		"vat_percent": input.VATPercent,
	})
}

func (service *ClientService) ArchiveRole(roleID uint) error {
	return service.roles.SetActive(roleID, false)
}

func (service *ClientService) UnarchiveRole(roleID uint) error {
	return service.roles.SetActive(roleID, true)
}

// BuildRolePicker maps client ids to their active roles.
func BuildRolePicker(clients []models.Client) map[string][]RoleOption {
	picker := make(map[string][]RoleOption, len(clients))
	for _, client := range clients {
		options := make([]RoleOption, 0, len(client.Roles))
		for _, role := range client.ActiveRoles() {
			options = append(options, RoleOption{ID: role.ID, Name: role.Name, Mode: role.Mode, Rate: role.Rate})
		}
		picker[strconv.FormatUint(uint64(client.ID), 10)] = options
	}
	return picker
}

func IsKnownRoleMode(mode string) bool {
	for _, known := range models.RoleModes() {
		if mode == known {
			return true
		}
	}
	return false
}

func validateClientInput(input ClientInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrClientNameRequired
	}
	if !validVATPercent(input.DefaultVATPercent) {
		return ErrVATPercentInvalid
	}
	return nil
}

func validateRoleInput(input RoleInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrRoleNameRequired
	}
	if !IsKnownRoleMode(input.Mode) {
		return ErrRoleModeInvalid
	}
	if input.Rate < 0 {
		return ErrRoleRateInvalid
	}
	if !validVATPercent(input.VATPercent) {
		return ErrVATPercentInvalid
	}
	return nil
}

func validVATPercent(percent int) bool {
	return percent >= 0 && percent <= 100
}
