package services

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"mecanosync-backend/models"

	"gorm.io/gorm"
)

// OrderNumberAllocator hands out order numbers. Numbers are sequential
// across all shops: the next number is the most recently created order's
// number plus one, zero-padded to at least four digits, starting at
// "1001" on an empty table. The mutex serializes concurrent creations so
// two requests cannot compute the same number; Next must be called inside
// the transaction that inserts the order.
type OrderNumberAllocator struct {
	mu sync.Mutex
}

var DefaultOrderNumbers = &OrderNumberAllocator{}

func (a *OrderNumberAllocator) Next(tx *gorm.DB) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var last models.ServiceOrder
	err := tx.Order("created_at DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "1001", nil
	}
	if err != nil {
		return "", err
	}

	n, err := strconv.Atoi(last.OrderNumber)
	if err != nil {
		return "", fmt.Errorf("last order number %q is not numeric: %w", last.OrderNumber, err)
	}

	// %04d pads to a minimum width; 9999 rolls over to "10000".
	return fmt.Sprintf("%04d", n+1), nil
}
