package services

import (
	"errors"
	"time"

	"mecanosync-backend/models"
	"mecanosync-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService owns the service-order lifecycle: creation with number
// assignment, updates with total recomputation, and the status state
// machine with its completion side effect.
type OrderService struct {
	db      *gorm.DB
	numbers *OrderNumberAllocator
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, numbers: DefaultOrderNumbers}
}

// NewOrderServiceWithAllocator lets tests control number sequencing.
func NewOrderServiceWithAllocator(db *gorm.DB, numbers *OrderNumberAllocator) *OrderService {
	return &OrderService{db: db, numbers: numbers}
}

type OrderItemInput struct {
	ServiceID uuid.UUID        `json:"serviceId" binding:"required"`
	Quantity  int              `json:"quantity" binding:"min=1"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	Note      string           `json:"note"`
}

type CreateOrderInput struct {
	CustomerID         uuid.UUID        `json:"customerId" binding:"required"`
	VehicleID          uuid.UUID        `json:"vehicleId" binding:"required"`
	EntryDate          *time.Time       `json:"entryDate"`
	ExpectedDelivery   time.Time        `json:"expectedDelivery" binding:"required"`
	Status             string           `json:"status"`
	ProblemDescription string           `json:"problemDescription" binding:"required"`
	Notes              string           `json:"notes"`
	GrossTotal         decimal.Decimal  `json:"grossTotal"`
	Discount           decimal.Decimal  `json:"discount"`
	Items              []OrderItemInput `json:"items"`
}

type UpdateOrderInput struct {
	CustomerID         *uuid.UUID        `json:"customerId"`
	VehicleID          *uuid.UUID        `json:"vehicleId"`
	EntryDate          *time.Time        `json:"entryDate"`
	ExpectedDelivery   *time.Time        `json:"expectedDelivery"`
	Status             *string           `json:"status"`
	ProblemDescription *string           `json:"problemDescription"`
	Notes              *string           `json:"notes"`
	GrossTotal         *decimal.Decimal  `json:"grossTotal"`
	Discount           *decimal.Decimal  `json:"discount"`
	Items              *[]OrderItemInput `json:"items"`
}

// Create persists a new order for the shop. The order number is allocated
// inside the same transaction as the insert.
func (s *OrderService) Create(shopID uuid.UUID, input CreateOrderInput) (*models.ServiceOrder, error) {
	status := input.Status
	if status == "" {
		status = models.OrderStatusAwaitingApproval
	}
	if !models.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	entryDate := utils.BeginningOfDay(time.Now())
	if input.EntryDate != nil {
		entryDate = *input.EntryDate
	}

	var order models.ServiceOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("shop_id = ? AND id = ?", shopID, input.CustomerID).
			First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var vehicle models.Vehicle
		if err := tx.Where("customer_id = ? AND id = ?", customer.ID, input.VehicleID).
			First(&vehicle).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		items, gross, err := s.buildItems(tx, input.Items)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			gross = input.GrossTotal
		}

		number, err := s.numbers.Next(tx)
		if err != nil {
			return err
		}

		if err := tx.Model(&customer).
			Update("last_visit", entryDate).Error; err != nil {
			return err
		}

		order = models.ServiceOrder{
			ShopID:             shopID,
			CustomerID:         customer.ID,
			VehicleID:          vehicle.ID,
			OrderNumber:        number,
			EntryDate:          entryDate,
			ExpectedDelivery:   input.ExpectedDelivery,
			Status:             status,
			ProblemDescription: input.ProblemDescription,
			Notes:              input.Notes,
			GrossTotal:         gross,
			Discount:           input.Discount,
			Items:              items,
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update applies partial changes. Totals are recomputed on every save; a
// status written here is a plain field write without the completion side
// effect, which belongs to ChangeStatus.
func (s *OrderService) Update(shopID, orderID uuid.UUID, input UpdateOrderInput) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Where("shop_id = ? AND id = ?", shopID, orderID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if input.CustomerID != nil {
			var customer models.Customer
			if err := tx.Where("shop_id = ? AND id = ?", shopID, *input.CustomerID).
				First(&customer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			order.CustomerID = customer.ID
		}

		if input.VehicleID != nil {
			var vehicle models.Vehicle
			if err := tx.Where("customer_id = ? AND id = ?", order.CustomerID, *input.VehicleID).
				First(&vehicle).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			order.VehicleID = vehicle.ID
		}

		if input.EntryDate != nil {
			order.EntryDate = *input.EntryDate
		}
		if input.ExpectedDelivery != nil {
			order.ExpectedDelivery = *input.ExpectedDelivery
		}
		if input.Status != nil {
			if !models.ValidOrderStatus(*input.Status) {
				return ErrInvalidStatus
			}
			order.Status = *input.Status
		}
		if input.ProblemDescription != nil {
			order.ProblemDescription = *input.ProblemDescription
		}
		if input.Notes != nil {
			order.Notes = *input.Notes
		}
		if input.GrossTotal != nil {
			order.GrossTotal = *input.GrossTotal
		}
		if input.Discount != nil {
			order.Discount = *input.Discount
		}

		if input.Items != nil {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&models.ServiceOrderItem{}).Error; err != nil {
				return err
			}
			items, gross, err := s.buildItems(tx, *input.Items)
			if err != nil {
				return err
			}
			for i := range items {
				items[i].OrderID = order.ID
			}
			order.Items = items
			order.GrossTotal = gross
		}

		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ChangeStatus writes the new status and runs the one coupled side effect:
// entering completed from a different state stamps the completion date and,
// when the order has no payments yet and a positive final total, creates a
// single pending cash payment for that total. The whole sequence is atomic.
func (s *OrderService) ChangeStatus(shopID, orderID uuid.UUID, newStatus string) (*models.ServiceOrder, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var order models.ServiceOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop_id = ? AND id = ?", shopID, orderID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		previous := order.Status
		order.Status = newStatus

		if newStatus == models.OrderStatusCompleted && previous != models.OrderStatusCompleted {
			today := utils.BeginningOfDay(time.Now())
			order.CompletionDate = &today

			var payments int64
			if err := tx.Model(&models.Payment{}).
				Where("order_id = ?", order.ID).
				Count(&payments).Error; err != nil {
				return err
			}
			if payments == 0 && order.FinalTotal.IsPositive() {
				payment := models.Payment{
					OrderID:     order.ID,
					PaymentDate: today,
					Amount:      order.FinalTotal,
					Method:      models.PaymentMethodCash,
					Status:      models.PaymentStatusPending,
				}
				if err := tx.Create(&payment).Error; err != nil {
					return err
				}
			}
		}

		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Get returns one order with its relations, scoped to the shop.
func (s *OrderService) Get(shopID, orderID uuid.UUID) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := s.db.Preload("Customer").Preload("Vehicle").
		Preload("Items").Preload("Payments").
		Where("shop_id = ? AND id = ?", shopID, orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns the shop's orders, optionally filtered by a search term
// (order number, customer name or plate) and a status.
func (s *OrderService) List(shopID uuid.UUID, search, status string) ([]models.ServiceOrder, error) {
	query := s.db.Model(&models.ServiceOrder{}).
		Preload("Customer").Preload("Vehicle").
		Joins("JOIN customers ON customers.id = service_orders.customer_id").
		Joins("JOIN vehicles ON vehicles.id = service_orders.vehicle_id").
		Where("service_orders.shop_id = ?", shopID)

	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"service_orders.order_number LIKE ? OR customers.name LIKE ? OR vehicles.plate LIKE ?",
			like, like, like)
	}
	if status != "" {
		if !models.ValidOrderStatus(status) {
			return nil, ErrInvalidStatus
		}
		query = query.Where("service_orders.status = ?", status)
	}

	var orders []models.ServiceOrder
	err := query.Order("service_orders.entry_date DESC").Find(&orders).Error
	return orders, err
}

func (s *OrderService) buildItems(tx *gorm.DB, inputs []OrderItemInput) ([]models.ServiceOrderItem, decimal.Decimal, error) {
	gross := decimal.Zero
	var items []models.ServiceOrderItem

	for _, in := range inputs {
		var service models.Service
		if err := tx.Where("id = ? AND is_active = ?", in.ServiceID, true).
			First(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, gross, ErrNotFound
			}
			return nil, gross, err
		}

		quantity := in.Quantity
		if quantity < 1 {
			quantity = 1
		}
		unitPrice := service.DefaultPrice
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		gross = gross.Add(lineTotal)

		items = append(items, models.ServiceOrderItem{
			ServiceID:   service.ID,
			ServiceName: service.Name,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
			Note:        in.Note,
		})
	}

	return items, gross, nil
}
