package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop is the tenant record. Every business row below it is partitioned
// by ShopID and must be read through the tenant context.
type Shop struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	TaxID   string    `gorm:"uniqueIndex;not null"`
	OwnerID *uuid.UUID `gorm:"type:uuid;index"`

	Phone   string `gorm:"not null"`
	Email   string `gorm:"not null"`
	Address string
	City    string `gorm:"not null"`

	IsActive    bool `gorm:"default:true"`
	RenewalDate *time.Time

	// Feature flags gating functional areas per tenant
	CustomersModule bool `gorm:"default:true"`
	OrdersModule    bool `gorm:"default:true"`
	BillingModule   bool `gorm:"default:true"`
	InventoryModule bool `gorm:"default:false"`
	ReportsModule   bool `gorm:"default:false"`

	SMSNotifications bool `gorm:"default:false"`

	Owner     *User      `gorm:"foreignKey:OwnerID"`
	Customers []Customer `gorm:"foreignKey:ShopID"`
	Orders    []ServiceOrder `gorm:"foreignKey:ShopID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Shop) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
