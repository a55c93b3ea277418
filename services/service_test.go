package services

import (
	"testing"
	"time"

	"mecanosync-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Customer{},
		&models.Vehicle{},
		&models.Service{},
		&models.ServiceOrder{},
		&models.ServiceOrderItem{},
		&models.Payment{},
		&models.NotificationLog{},
	))
	return db
}

func seedShop(t *testing.T, db *gorm.DB, name string) models.Shop {
	t.Helper()

	shop := models.Shop{
		Name:          name,
		TaxID:         name + "-tax",
		Phone:         "11999990000",
		Email:         name + "@example.com",
		City:          "Sao Paulo",
		IsActive:      true,
		OrdersModule:  true,
		BillingModule: true,
	}
	require.NoError(t, db.Create(&shop).Error)
	return shop
}

func seedCustomer(t *testing.T, db *gorm.DB, shopID uuid.UUID, name string) models.Customer {
	t.Helper()

	customer := models.Customer{
		ShopID:   shopID,
		Name:     name,
		TaxID:    "123.456.789-00",
		Phone:    "11988887777",
		IsActive: true,
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func seedVehicle(t *testing.T, db *gorm.DB, customerID uuid.UUID, plate string) models.Vehicle {
	t.Helper()

	vehicle := models.Vehicle{
		CustomerID: customerID,
		Make:       "Fiat",
		Model:      "Uno",
		Year:       2018,
		Plate:      plate,
	}
	require.NoError(t, db.Create(&vehicle).Error)
	return vehicle
}

func seedCatalogService(t *testing.T, db *gorm.DB, name string, price string) models.Service {
	t.Helper()

	service := models.Service{
		Name:         name,
		DefaultPrice: decimal.RequireFromString(price),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&service).Error)
	return service
}

// seedOrder creates an order directly, bypassing the allocator, for tests
// that only need a row to operate on.
func seedOrder(t *testing.T, db *gorm.DB, shop models.Shop, number string, gross string) models.ServiceOrder {
	t.Helper()

	customer := seedCustomer(t, db, shop.ID, "Seed Customer "+number)
	vehicle := seedVehicle(t, db, customer.ID, "SED"+number[len(number)-4:])

	order := models.ServiceOrder{
		ShopID:             shop.ID,
		CustomerID:         customer.ID,
		VehicleID:          vehicle.ID,
		OrderNumber:        number,
		EntryDate:          time.Now(),
		ExpectedDelivery:   time.Now().AddDate(0, 0, 3),
		Status:             models.OrderStatusInProgress,
		ProblemDescription: "Engine noise",
		GrossTotal:         decimal.RequireFromString(gross),
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}
