// controllers/vehicle.go
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

type CreateVehicleInput struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	Make       string    `json:"make" binding:"required"`
	Model      string    `json:"model" binding:"required"`
	Year       int       `json:"year" binding:"required"`
	Plate      string    `json:"plate" binding:"required"`
	Color      string    `json:"color"`
	Odometer   *int      `json:"odometer"`
}

type UpdateVehicleInput struct {
	Make     *string `json:"make"`
	Model    *string `json:"model"`
	Year     *int    `json:"year"`
	Plate    *string `json:"plate"`
	Color    *string `json:"color"`
	Odometer *int    `json:"odometer"`
}

type vehicleSummary struct {
	ID    uuid.UUID `json:"id"`
	Make  string    `json:"make"`
	Model string    `json:"model"`
	Year  int       `json:"year"`
	Plate string    `json:"plate"`
}

// GetCustomerVehicles lists a customer's vehicles for the order form.
func GetCustomerVehicles(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	customerID := c.Query("customerId")
	if customerID == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": []vehicleSummary{}})
		return
	}
	customerUUID, err := uuid.Parse(customerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var vehicles []models.Vehicle
	if err := config.DB.
		Joins("JOIN customers ON customers.id = vehicles.customer_id").
		Where("customers.shop_id = ? AND vehicles.customer_id = ?", shop.ID, customerUUID).
		Find(&vehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	summaries := make([]vehicleSummary, 0, len(vehicles))
	for _, v := range vehicles {
		summaries = append(summaries, vehicleSummary{
			ID: v.ID, Make: v.Make, Model: v.Model, Year: v.Year, Plate: v.Plate,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": summaries})
}

// CreateVehicle registers a vehicle for one of the shop's customers.
func CreateVehicle(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	var input CreateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("shop_id = ? AND id = ?", shop.ID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.ValidatePlate(input.Plate) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate format")
		return
	}
	if plateTaken(config.DB, input.Plate, uuid.Nil) {
		utils.RespondWithError(c, http.StatusConflict, "A vehicle with this plate already exists")
		return
	}

	vehicle := models.Vehicle{
		CustomerID: customer.ID,
		Make:       input.Make,
		Model:      input.Model,
		Year:       input.Year,
		Plate:      input.Plate,
		Color:      input.Color,
		Odometer:   input.Odometer,
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"vehicle": vehicleSummary{
			ID: vehicle.ID, Make: vehicle.Make, Model: vehicle.Model,
			Year: vehicle.Year, Plate: vehicle.Plate,
		},
	})
}

// GetVehicle retrieves one vehicle, scoped through its customer's shop.
func GetVehicle(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	vehicle, ok := findShopVehicle(c, shop.ID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicle": vehicle})
}

// UpdateVehicle updates a vehicle's fields.
func UpdateVehicle(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	vehicle, ok := findShopVehicle(c, shop.ID)
	if !ok {
		return
	}

	var input UpdateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Make != nil {
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		vehicle.Model = *input.Model
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.Plate != nil {
		if !utils.ValidatePlate(*input.Plate) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate format")
			return
		}
		if plateTaken(config.DB, *input.Plate, vehicle.ID) {
			utils.RespondWithError(c, http.StatusConflict, "A vehicle with this plate already exists")
			return
		}
		vehicle.Plate = *input.Plate
	}
	if input.Color != nil {
		vehicle.Color = *input.Color
	}
	if input.Odometer != nil {
		vehicle.Odometer = input.Odometer
	}

	if err := config.DB.Save(vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteVehicle removes a vehicle.
func DeleteVehicle(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	vehicle, ok := findShopVehicle(c, shop.ID)
	if !ok {
		return
	}

	if err := config.DB.Delete(vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func findShopVehicle(c *gin.Context, shopID uuid.UUID) (*models.Vehicle, bool) {
	vehicleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return nil, false
	}

	var vehicle models.Vehicle
	if err := config.DB.
		Joins("JOIN customers ON customers.id = vehicles.customer_id").
		Where("customers.shop_id = ? AND vehicles.id = ?", shopID, vehicleUUID).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &vehicle, true
}
