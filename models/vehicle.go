package models

import (
	"time"

	"mecanosync-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Make  string `gorm:"not null"`
	Model string `gorm:"not null"`
	Year  int    `gorm:"not null"`
	// Plates are unique across the whole system, not per tenant.
	Plate    string `gorm:"uniqueIndex;not null"`
	Color    string
	Odometer *int

	Customer *Customer      `gorm:"foreignKey:CustomerID"`
	Orders   []ServiceOrder `gorm:"foreignKey:VehicleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

func (v *Vehicle) BeforeSave(tx *gorm.DB) (err error) {
	v.Plate = utils.NormalizePlate(v.Plate)
	return
}
