package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentMethodCash            = "cash"
	PaymentMethodCreditCard      = "credit_card"
	PaymentMethodDebitCard       = "debit_card"
	PaymentMethodInstantTransfer = "instant_transfer"
	PaymentMethodBankTransfer    = "bank_transfer"
	PaymentMethodBankSlip        = "bank_slip"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusCanceled = "canceled"
)

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodInstantTransfer, PaymentMethodBankTransfer, PaymentMethodBankSlip:
		return true
	}
	return false
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusCanceled:
		return true
	}
	return false
}

type Payment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null"`

	PaymentDate time.Time       `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Method      string          `gorm:"type:varchar(20);not null"`
	Status      string          `gorm:"type:varchar(20);default:'pending';not null"`
	Note        string          `gorm:"type:text"`

	Order *ServiceOrder `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
