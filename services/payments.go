package services

import (
	"errors"
	"time"

	"mecanosync-backend/models"
	"mecanosync-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// List returns the shop's payments, newest first, optionally limited to a
// payment-date window.
func (s *PaymentService) List(shopID uuid.UUID, from, to *time.Time) ([]models.Payment, error) {
	query := s.db.Model(&models.Payment{}).
		Preload("Order").Preload("Order.Customer").
		Joins("JOIN service_orders ON service_orders.id = payments.order_id").
		Where("service_orders.shop_id = ?", shopID)

	if from != nil {
		query = query.Where("payments.payment_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("payments.payment_date <= ?", *to)
	}

	var payments []models.Payment
	err := query.Order("payments.payment_date DESC").Find(&payments).Error
	return payments, err
}

// ChangeStatus validates the new status and, on a transition to paid,
// stamps the payment date with today's date.
func (s *PaymentService) ChangeStatus(shopID, paymentID uuid.UUID, newStatus string) (*models.Payment, error) {
	if !models.ValidPaymentStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	payment, err := s.get(shopID, paymentID)
	if err != nil {
		return nil, err
	}

	payment.Status = newStatus
	if newStatus == models.PaymentStatusPaid {
		payment.PaymentDate = utils.BeginningOfDay(time.Now())
	}

	if err := s.db.Save(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// ChangeMethod rejects any method change once the payment is settled.
func (s *PaymentService) ChangeMethod(shopID, paymentID uuid.UUID, newMethod string) (*models.Payment, error) {
	if !models.ValidPaymentMethod(newMethod) {
		return nil, ErrInvalidMethod
	}

	payment, err := s.get(shopID, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentStatusPaid {
		return nil, ErrPaymentAlreadySettled
	}

	payment.Method = newMethod
	if err := s.db.Save(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) get(shopID, paymentID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.
		Joins("JOIN service_orders ON service_orders.id = payments.order_id").
		Where("service_orders.shop_id = ? AND payments.id = ?", shopID, paymentID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
