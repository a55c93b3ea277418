package services

import (
	"testing"
	"time"

	"mecanosync-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderAssignsSequentialNumbers(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	customer := seedCustomer(t, db, shop.ID, "Joao")
	vehicle := seedVehicle(t, db, customer.ID, "ABC-1234")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})

	first, err := svc.Create(shop.ID, CreateOrderInput{
		CustomerID:         customer.ID,
		VehicleID:          vehicle.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 2),
		ProblemDescription: "Brake check",
	})
	require.NoError(t, err)
	assert.Equal(t, "1001", first.OrderNumber)

	second, err := svc.Create(shop.ID, CreateOrderInput{
		CustomerID:         customer.ID,
		VehicleID:          vehicle.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 2),
		ProblemDescription: "Oil change",
	})
	require.NoError(t, err)
	assert.Equal(t, "1002", second.OrderNumber)
}

func TestOrderNumberGrowsPastFourDigits(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	seedOrder(t, db, shop, "9999", "0")

	customer := seedCustomer(t, db, shop.ID, "Maria")
	vehicle := seedVehicle(t, db, customer.ID, "DEF-5678")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	order, err := svc.Create(shop.ID, CreateOrderInput{
		CustomerID:         customer.ID,
		VehicleID:          vehicle.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 1),
		ProblemDescription: "Suspension",
	})
	require.NoError(t, err)
	assert.Equal(t, "10000", order.OrderNumber)
}

func TestOrderNumberingIsGlobalAcrossShops(t *testing.T) {
	db := openTestDB(t)
	shopA := seedShop(t, db, "oficina-a")
	shopB := seedShop(t, db, "oficina-b")

	customerA := seedCustomer(t, db, shopA.ID, "Ana")
	vehicleA := seedVehicle(t, db, customerA.ID, "GHI-9012")
	customerB := seedCustomer(t, db, shopB.ID, "Bruno")
	vehicleB := seedVehicle(t, db, customerB.ID, "JKL-3456")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})

	first, err := svc.Create(shopA.ID, CreateOrderInput{
		CustomerID:         customerA.ID,
		VehicleID:          vehicleA.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 1),
		ProblemDescription: "Alignment",
	})
	require.NoError(t, err)

	second, err := svc.Create(shopB.ID, CreateOrderInput{
		CustomerID:         customerB.ID,
		VehicleID:          vehicleB.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 1),
		ProblemDescription: "Battery",
	})
	require.NoError(t, err)

	assert.Equal(t, "1001", first.OrderNumber)
	assert.Equal(t, "1002", second.OrderNumber)
}

func TestCreateOrderComputesTotalsFromItems(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	customer := seedCustomer(t, db, shop.ID, "Carla")
	vehicle := seedVehicle(t, db, customer.ID, "MNO-7890")

	oilChange := seedCatalogService(t, db, "Oil change", "50.00")
	brakePads := seedCatalogService(t, db, "Brake pads", "200.00")
	override := decimal.RequireFromString("30.00")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	order, err := svc.Create(shop.ID, CreateOrderInput{
		CustomerID:         customer.ID,
		VehicleID:          vehicle.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 5),
		ProblemDescription: "Full service",
		Discount:           decimal.RequireFromString("10.00"),
		Items: []OrderItemInput{
			{ServiceID: oilChange.ID, Quantity: 2},
			{ServiceID: brakePads.ID, Quantity: 1, UnitPrice: &override},
		},
	})
	require.NoError(t, err)

	// 2 x 50.00 + 1 x 30.00 (override wins over the catalog price)
	assert.True(t, order.GrossTotal.Equal(decimal.RequireFromString("130.00")),
		"gross = %s", order.GrossTotal)
	assert.True(t, order.FinalTotal.Equal(decimal.RequireFromString("120.00")),
		"final = %s", order.FinalTotal)

	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].LineTotal.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "Oil change", order.Items[0].ServiceName)
	assert.True(t, order.Items[1].LineTotal.Equal(override))
}

func TestCreateOrderDefaultsStatus(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	customer := seedCustomer(t, db, shop.ID, "Diego")
	vehicle := seedVehicle(t, db, customer.ID, "PQR-1357")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	order, err := svc.Create(shop.ID, CreateOrderInput{
		CustomerID:         customer.ID,
		VehicleID:          vehicle.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 1),
		ProblemDescription: "Noise when braking",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingApproval, order.Status)

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", customer.ID).Error)
	require.NotNil(t, reloaded.LastVisit)
	assert.Equal(t, time.Now().YearDay(), reloaded.LastVisit.YearDay())
}

func TestCreateOrderRejectsVehicleOfAnotherCustomer(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	customer := seedCustomer(t, db, shop.ID, "Elisa")
	other := seedCustomer(t, db, shop.ID, "Fabio")
	otherVehicle := seedVehicle(t, db, other.ID, "STU-2468")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	_, err := svc.Create(shop.ID, CreateOrderInput{
		CustomerID:         customer.ID,
		VehicleID:          otherVehicle.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 1),
		ProblemDescription: "Wrong pairing",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderRejectsCustomerFromAnotherShop(t *testing.T) {
	db := openTestDB(t)
	shopA := seedShop(t, db, "oficina-a")
	shopB := seedShop(t, db, "oficina-b")
	customerB := seedCustomer(t, db, shopB.ID, "Gustavo")
	vehicleB := seedVehicle(t, db, customerB.ID, "VWX-3691")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	_, err := svc.Create(shopA.ID, CreateOrderInput{
		CustomerID:         customerB.ID,
		VehicleID:          vehicleB.ID,
		ExpectedDelivery:   time.Now().AddDate(0, 0, 1),
		ProblemDescription: "Cross-tenant attempt",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangeStatusToCompletedCreatesPendingPayment(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	order := seedOrder(t, db, shop, "1001", "350.00")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	updated, err := svc.ChangeStatus(shop.ID, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)

	require.NotNil(t, updated.CompletionDate)
	today := time.Now()
	assert.Equal(t, today.Year(), updated.CompletionDate.Year())
	assert.Equal(t, today.YearDay(), updated.CompletionDate.YearDay())

	var payments []models.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusPending, payments[0].Status)
	assert.Equal(t, models.PaymentMethodCash, payments[0].Method)
	assert.True(t, payments[0].Amount.Equal(decimal.RequireFromString("350.00")))
}

func TestChangeStatusDoesNotDuplicatePayment(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	order := seedOrder(t, db, shop, "1001", "350.00")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	_, err := svc.ChangeStatus(shop.ID, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(shop.ID, order.ID, models.OrderStatusInProgress)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(shop.ID, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).
		Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestChangeStatusSkipsPaymentOnZeroTotal(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	order := seedOrder(t, db, shop, "1001", "0")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	updated, err := svc.ChangeStatus(shop.ID, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, updated.CompletionDate)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).
		Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	order := seedOrder(t, db, shop, "1001", "100.00")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	_, err := svc.ChangeStatus(shop.ID, order.ID, "done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateRecomputesFinalTotal(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	order := seedOrder(t, db, shop, "1001", "100.00")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	discount := decimal.RequireFromString("25.00")
	updated, err := svc.Update(shop.ID, order.ID, UpdateOrderInput{
		Discount: &discount,
	})
	require.NoError(t, err)
	assert.True(t, updated.FinalTotal.Equal(decimal.RequireFromString("75.00")),
		"final = %s", updated.FinalTotal)
}

func TestListIsScopedToShop(t *testing.T) {
	db := openTestDB(t)
	shopA := seedShop(t, db, "oficina-a")
	shopB := seedShop(t, db, "oficina-b")
	seedOrder(t, db, shopA, "1001", "100.00")
	orderB := seedOrder(t, db, shopB, "1002", "200.00")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	orders, err := svc.List(shopB.ID, "", "")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, orderB.ID, orders[0].ID)
}

func TestPlateUniqueAcrossShops(t *testing.T) {
	db := openTestDB(t)
	shopA := seedShop(t, db, "oficina-a")
	shopB := seedShop(t, db, "oficina-b")

	customerA := seedCustomer(t, db, shopA.ID, "Julia")
	seedVehicle(t, db, customerA.ID, "ABC-1234")

	customerB := seedCustomer(t, db, shopB.ID, "Kleber")
	duplicate := models.Vehicle{
		CustomerID: customerB.ID,
		Make:       "VW",
		Model:      "Gol",
		Year:       2015,
		Plate:      "abc-1234", // normalized to ABC-1234 on save
	}
	assert.Error(t, db.Create(&duplicate).Error)
}

func TestGetFromAnotherShopIsNotFound(t *testing.T) {
	db := openTestDB(t)
	shopA := seedShop(t, db, "oficina-a")
	shopB := seedShop(t, db, "oficina-b")
	orderA := seedOrder(t, db, shopA, "1001", "100.00")

	svc := NewOrderServiceWithAllocator(db, &OrderNumberAllocator{})
	_, err := svc.Get(shopB.ID, orderA.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
