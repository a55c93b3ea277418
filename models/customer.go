package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	ShopID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name    string `gorm:"not null"`
	TaxID   string `gorm:"not null"`
	Phone   string `gorm:"not null"`
	Email   string
	Address string
	City    string

	IsActive  bool `gorm:"default:true"`
	LastVisit *time.Time

	Vehicles []Vehicle      `gorm:"foreignKey:CustomerID"`
	Orders   []ServiceOrder `gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
