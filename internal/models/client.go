package models

const DefaultVATPercent = 25

type Client struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"not null"`
	DefaultVATPercent int    `gorm:"not null"`
	LogoURL           string `gorm:"column:logo_url"`
	Roles             []Role `gorm:"foreignKey:ClientID"`
}

func (Client) TableName() string {
	return "client"
}

func (client Client) ActiveRoles() []Role {
	active := make([]Role, 0, len(client.Roles))
	for _, role := range client.Roles {
		if role.Active {
			active = append(active, role)
		}
	}
	return active
}
