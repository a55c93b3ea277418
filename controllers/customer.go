package controllers

import (
	"errors"
	"net/http"

	"mecanosync-backend/config"
	"mecanosync-backend/models"
	"mecanosync-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmbeddedVehicleInput carries the optional vehicle registered together
// with a customer. When the pointer is present all its required fields
// are enforced by the binding; when absent nothing is.
type EmbeddedVehicleInput struct {
	Make     string `json:"make" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Year     int    `json:"year" binding:"required"`
	Plate    string `json:"plate" binding:"required"`
	Color    string `json:"color"`
	Odometer *int   `json:"odometer"`
}

type CreateCustomerInput struct {
	Name    string  `json:"name" binding:"required"`
	TaxID   string  `json:"taxId" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Email   *string `json:"email"`
	Address string  `json:"address"`
	City    string  `json:"city"`

	Vehicle *EmbeddedVehicleInput `json:"vehicle"`
}

type UpdateCustomerInput struct {
	Name     *string `json:"name"`
	TaxID    *string `json:"taxId"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	IsActive *bool   `json:"isActive"`

	Vehicle *EmbeddedVehicleInput `json:"vehicle"`
}

// CreateCustomer creates a new customer for the shop, optionally together
// with their first vehicle.
func CreateCustomer(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	if input.Vehicle != nil {
		if !utils.ValidatePlate(input.Vehicle.Plate) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate format")
			return
		}
		if plateTaken(config.DB, input.Vehicle.Plate, uuid.Nil) {
			utils.RespondWithError(c, http.StatusConflict, "A vehicle with this plate already exists")
			return
		}
	}

	customer := models.Customer{
		ShopID:   shop.ID,
		Name:     input.Name,
		TaxID:    input.TaxID,
		Phone:    input.Phone,
		Address:  input.Address,
		City:     input.City,
		IsActive: true,
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Vehicle != nil {
		customer.Vehicles = []models.Vehicle{{
			Make:     input.Vehicle.Make,
			Model:    input.Vehicle.Model,
			Year:     input.Vehicle.Year,
			Plate:    input.Vehicle.Plate,
			Color:    input.Vehicle.Color,
			Odometer: input.Vehicle.Odometer,
		}}
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves the shop's customers with optional search and
// active/inactive filtering.
func GetCustomers(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	query := config.DB.Where("shop_id = ?", shop.ID)

	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"name LIKE ? OR tax_id LIKE ? OR phone LIKE ? OR email LIKE ?",
			like, like, like, like)
	}
	switch c.Query("filter") {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}

	var customers []models.Customer
	if err := query.Order("created_at DESC").Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves one customer with their vehicles.
func GetCustomer(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := config.DB.Preload("Vehicles").
		Where("shop_id = ? AND id = ?", shop.ID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer, optionally adding another
// vehicle in the same request.
func UpdateCustomer(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("shop_id = ? AND id = ?", shop.ID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.TaxID != nil {
		customer.TaxID = *input.TaxID
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.City != nil {
		customer.City = *input.City
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	if input.Vehicle != nil {
		if !utils.ValidatePlate(input.Vehicle.Plate) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate format")
			return
		}
		if plateTaken(config.DB, input.Vehicle.Plate, uuid.Nil) {
			utils.RespondWithError(c, http.StatusConflict, "A vehicle with this plate already exists")
			return
		}
		vehicle := models.Vehicle{
			CustomerID: customer.ID,
			Make:       input.Vehicle.Make,
			Model:      input.Vehicle.Model,
			Year:       input.Vehicle.Year,
			Plate:      input.Vehicle.Plate,
			Color:      input.Vehicle.Color,
			Odometer:   input.Vehicle.Odometer,
		}
		if err := config.DB.Create(&vehicle).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Customer updated, but failed to add vehicle")
			return
		}
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer and, through the cascade, their
// vehicles and orders.
func DeleteCustomer(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("shop_id = ? AND id = ?", shop.ID, customerUUID).
			First(&customer).Error; err != nil {
			return err
		}

		var orderIDs []uuid.UUID
		if err := tx.Model(&models.ServiceOrder{}).
			Where("customer_id = ?", customer.ID).
			Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).
				Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id IN ?", orderIDs).
				Delete(&models.ServiceOrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", orderIDs).
				Delete(&models.ServiceOrder{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("customer_id = ?", customer.ID).
			Delete(&models.Vehicle{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Customer deleted successfully"})
}

func plateTaken(db *gorm.DB, plate string, excludeID uuid.UUID) bool {
	var count int64
	query := db.Model(&models.Vehicle{}).
		Where("plate = ?", utils.NormalizePlate(plate))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	query.Count(&count)
	return count > 0
}
