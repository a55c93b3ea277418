package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusAwaitingApproval = "awaiting_approval"
	OrderStatusInProgress       = "in_progress"
	OrderStatusAwaitingParts    = "awaiting_parts"
	OrderStatusCompleted        = "completed"
	OrderStatusDelivered        = "delivered"
	OrderStatusCanceled         = "canceled"
)

// OpenOrderStatuses are the states in which an order still counts as open.
var OpenOrderStatuses = []string{
	OrderStatusAwaitingApproval,
	OrderStatusInProgress,
	OrderStatusAwaitingParts,
}

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusAwaitingApproval, OrderStatusInProgress, OrderStatusAwaitingParts,
		OrderStatusCompleted, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

type ServiceOrder struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ShopID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	VehicleID  uuid.UUID `gorm:"type:uuid;index;not null"`

	// Assigned once on creation, immutable afterwards.
	OrderNumber string `gorm:"uniqueIndex;not null"`

	EntryDate        time.Time `gorm:"not null"`
	ExpectedDelivery time.Time `gorm:"not null"`
	CompletionDate   *time.Time

	Status string `gorm:"type:varchar(20);default:'awaiting_approval';not null"`

	ProblemDescription string `gorm:"type:text;not null"`
	Notes              string `gorm:"type:text"`

	GrossTotal decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	Discount   decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	FinalTotal decimal.Decimal `gorm:"type:decimal(10,2);default:0"`

	Customer *Customer          `gorm:"foreignKey:CustomerID"`
	Vehicle  *Vehicle           `gorm:"foreignKey:VehicleID"`
	Items    []ServiceOrderItem `gorm:"foreignKey:OrderID"`
	Payments []Payment          `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *ServiceOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// The final total is derived, never stored stale.
func (o *ServiceOrder) BeforeSave(tx *gorm.DB) (err error) {
	o.FinalTotal = o.GrossTotal.Sub(o.Discount)
	return
}

type ServiceOrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	ServiceName string          `gorm:"not null"`
	Quantity    int             `gorm:"default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Note        string
}

func (i *ServiceOrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (i *ServiceOrderItem) BeforeSave(tx *gorm.DB) (err error) {
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return
}
