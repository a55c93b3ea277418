// controllers/catalog.go
package controllers

import (
	"errors"
	"net/http"

	"mecanosync-backend/config"
	"mecanosync-backend/models"
	"mecanosync-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateCatalogServiceInput struct {
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	DefaultPrice   decimal.Decimal `json:"defaultPrice" binding:"required"`
	EstimatedHours *int            `json:"estimatedHours"`
}

type UpdateCatalogServiceInput struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	DefaultPrice   *decimal.Decimal `json:"defaultPrice"`
	EstimatedHours *int             `json:"estimatedHours"`
	IsActive       *bool            `json:"isActive"`
}

// GetCatalog lists the service catalog. The catalog is shared across
// shops, so there is no tenant filter here.
func GetCatalog(c *gin.Context) {
	query := config.DB.Order("name")
	if c.Query("filter") != "all" {
		query = query.Where("is_active = ?", true)
	}

	var catalog []models.Service
	if err := query.Find(&catalog).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve catalog")
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// GetCatalogService retrieves one catalog entry.
func GetCatalogService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// CreateCatalogService adds a catalog entry (superuser only).
func CreateCatalogService(c *gin.Context) {
	var input CreateCatalogServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service := models.Service{
		Name:           input.Name,
		Description:    input.Description,
		DefaultPrice:   input.DefaultPrice,
		EstimatedHours: input.EstimatedHours,
		IsActive:       true,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// UpdateCatalogService updates a catalog entry (superuser only).
func UpdateCatalogService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateCatalogServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.DefaultPrice != nil {
		service.DefaultPrice = *input.DefaultPrice
	}
	if input.EstimatedHours != nil {
		service.EstimatedHours = input.EstimatedHours
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteCatalogService removes a catalog entry (superuser only).
func DeleteCatalogService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := config.DB.Delete(&models.Service{}, "id = ?", serviceUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service deleted successfully"})
}
