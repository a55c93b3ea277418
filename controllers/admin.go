// controllers/admin.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"mecanosync-backend/config"
	"mecanosync-backend/models"
	"mecanosync-backend/services"
	"mecanosync-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewOwnerInput carries the credentials for an owner account created
// together with a shop. Either this or an existing ownerId must be given.
type NewOwnerInput struct {
	Email           string `json:"email" binding:"required,email"`
	Name            string `json:"name" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type CreateShopInput struct {
	Name    string `json:"name" binding:"required"`
	TaxID   string `json:"taxId" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address"`
	City    string `json:"city" binding:"required"`

	OwnerID  *uuid.UUID     `json:"ownerId"`
	NewOwner *NewOwnerInput `json:"newOwner"`

	CustomersModule  *bool `json:"customersModule"`
	OrdersModule     *bool `json:"ordersModule"`
	BillingModule    *bool `json:"billingModule"`
	InventoryModule  *bool `json:"inventoryModule"`
	ReportsModule    *bool `json:"reportsModule"`
	SMSNotifications *bool `json:"smsNotifications"`
}

type UpdateShopInput struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"taxId"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	City    *string `json:"city"`

	OwnerID     *uuid.UUID `json:"ownerId"`
	RenewalDate *time.Time `json:"renewalDate"`

	CustomersModule  *bool `json:"customersModule"`
	OrdersModule     *bool `json:"ordersModule"`
	BillingModule    *bool `json:"billingModule"`
	InventoryModule  *bool `json:"inventoryModule"`
	ReportsModule    *bool `json:"reportsModule"`
	SMSNotifications *bool `json:"smsNotifications"`
}

type ResetOwnerPasswordInput struct {
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// GetPlatformOverview returns the cross-tenant statistics for the
// superuser dashboard.
func GetPlatformOverview(c *gin.Context) {
	overview, err := services.NewReportService(config.DB).Platform()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute platform overview")
		return
	}

	c.JSON(http.StatusOK, overview)
}

// CreateShop creates a tenant, optionally creating its owner account in
// the same request.
func CreateShop(c *gin.Context) {
	var input CreateShopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.OwnerID == nil && input.NewOwner == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Select an existing owner or create a new one")
		return
	}
	if input.NewOwner != nil && input.NewOwner.Password != input.NewOwner.ConfirmPassword {
		utils.RespondWithError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	var shop models.Shop
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		ownerID := input.OwnerID

		if input.NewOwner != nil {
			var existing models.User
			if err := tx.Where("email = ?", input.NewOwner.Email).
				First(&existing).Error; err == nil {
				return errEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			owner := models.User{
				Email:    input.NewOwner.Email,
				Name:     input.NewOwner.Name,
				Password: input.NewOwner.Password, // hashed in BeforeCreate
			}
			if err := tx.Create(&owner).Error; err != nil {
				return err
			}
			ownerID = &owner.ID
		} else {
			var owner models.User
			if err := tx.First(&owner, "id = ?", *ownerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errOwnerNotFound
				}
				return err
			}
		}

		shop = models.Shop{
			Name:             input.Name,
			TaxID:            input.TaxID,
			OwnerID:          ownerID,
			Phone:            input.Phone,
			Email:            input.Email,
			Address:          input.Address,
			City:             input.City,
			IsActive:         true,
			CustomersModule:  boolOr(input.CustomersModule, true),
			OrdersModule:     boolOr(input.OrdersModule, true),
			BillingModule:    boolOr(input.BillingModule, true),
			InventoryModule:  boolOr(input.InventoryModule, false),
			ReportsModule:    boolOr(input.ReportsModule, false),
			SMSNotifications: boolOr(input.SMSNotifications, false),
		}
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}

		// Zero-valued flags are dropped on insert in favor of the column
		// defaults, so write them out explicitly.
		return tx.Model(&shop).Updates(map[string]interface{}{
			"customers_module":  shop.CustomersModule,
			"orders_module":     shop.OrdersModule,
			"billing_module":    shop.BillingModule,
			"inventory_module":  shop.InventoryModule,
			"reports_module":    shop.ReportsModule,
			"sms_notifications": shop.SMSNotifications,
		}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errEmailTaken):
			utils.RespondWithError(c, http.StatusConflict, "A user with this email already exists")
		case errors.Is(err, errOwnerNotFound):
			utils.RespondWithError(c, http.StatusBadRequest, "Owner not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create shop")
		}
		return
	}

	c.JSON(http.StatusCreated, shop)
}

// GetShop returns one tenant with its usage statistics.
func GetShop(c *gin.Context) {
	shop, ok := findShop(c)
	if !ok {
		return
	}

	var activeCustomers int64
	config.DB.Model(&models.Customer{}).
		Where("shop_id = ? AND is_active = ?", shop.ID, true).
		Count(&activeCustomers)

	var totalVehicles int64
	config.DB.Model(&models.Vehicle{}).
		Joins("JOIN customers ON customers.id = vehicles.customer_id").
		Where("customers.shop_id = ?", shop.ID).
		Count(&totalVehicles)

	reports := services.NewReportService(config.DB)

	type statusCount struct {
		Status string `json:"status"`
		Total  int64  `json:"total"`
	}
	var ordersByStatus []statusCount
	config.DB.Model(&models.ServiceOrder{}).
		Select("status, COUNT(*) as total").
		Where("shop_id = ?", shop.ID).
		Group("status").
		Order("total DESC").
		Scan(&ordersByStatus)

	summary, err := reports.Billing(shop.ID, nil, nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute shop statistics")
		return
	}

	recentOrders, err := reports.RecentOrders(shop.ID, 10)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve recent orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shop":            shop,
		"activeCustomers": activeCustomers,
		"totalVehicles":   totalVehicles,
		"ordersByStatus":  ordersByStatus,
		"billing":         summary,
		"recentOrders":    recentOrders,
	})
}

// UpdateShop updates a tenant's record and feature flags.
func UpdateShop(c *gin.Context) {
	shop, ok := findShop(c)
	if !ok {
		return
	}

	var input UpdateShopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		shop.Name = *input.Name
	}
	if input.TaxID != nil {
		shop.TaxID = *input.TaxID
	}
	if input.Phone != nil {
		shop.Phone = *input.Phone
	}
	if input.Email != nil {
		shop.Email = *input.Email
	}
	if input.Address != nil {
		shop.Address = *input.Address
	}
	if input.City != nil {
		shop.City = *input.City
	}
	if input.OwnerID != nil {
		var owner models.User
		if err := config.DB.First(&owner, "id = ?", *input.OwnerID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Owner not found")
			return
		}
		shop.OwnerID = input.OwnerID
	}
	if input.RenewalDate != nil {
		shop.RenewalDate = input.RenewalDate
	}
	if input.CustomersModule != nil {
		shop.CustomersModule = *input.CustomersModule
	}
	if input.OrdersModule != nil {
		shop.OrdersModule = *input.OrdersModule
	}
	if input.BillingModule != nil {
		shop.BillingModule = *input.BillingModule
	}
	if input.InventoryModule != nil {
		shop.InventoryModule = *input.InventoryModule
	}
	if input.ReportsModule != nil {
		shop.ReportsModule = *input.ReportsModule
	}
	if input.SMSNotifications != nil {
		shop.SMSNotifications = *input.SMSNotifications
	}

	if err := config.DB.Save(shop).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update shop")
		return
	}

	c.JSON(http.StatusOK, shop)
}

// ToggleShop flips a tenant's active flag (soft deactivation).
func ToggleShop(c *gin.Context) {
	shop, ok := findShop(c)
	if !ok {
		return
	}

	shop.IsActive = !shop.IsActive
	if err := config.DB.Save(shop).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update shop")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "isActive": shop.IsActive})
}

// DeleteShop hard-deletes a tenant and everything it owns. The owner
// account goes with it unless it is a superuser or owns another shop.
func DeleteShop(c *gin.Context) {
	shop, ok := findShop(c)
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var orderIDs []uuid.UUID
		if err := tx.Model(&models.ServiceOrder{}).
			Where("shop_id = ?", shop.ID).
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

		var customerIDs []uuid.UUID
		if err := tx.Model(&models.Customer{}).
			Where("shop_id = ?", shop.ID).
			Pluck("id", &customerIDs).Error; err != nil {
			return err
		}
		if len(customerIDs) > 0 {
			if err := tx.Where("customer_id IN ?", customerIDs).
				Delete(&models.Vehicle{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", customerIDs).
				Delete(&models.Customer{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("shop_id = ?", shop.ID).
			Delete(&models.NotificationLog{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(shop).Error; err != nil {
			return err
		}

		if shop.OwnerID != nil {
			var owner models.User
			if err := tx.First(&owner, "id = ?", *shop.OwnerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}

			var otherShops int64
			if err := tx.Model(&models.Shop{}).
				Where("owner_id = ? AND id <> ?", owner.ID, shop.ID).
				Count(&otherShops).Error; err != nil {
				return err
			}
			if !owner.IsSuperuser && otherShops == 0 {
				return tx.Delete(&owner).Error
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete shop")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Shop deleted successfully"})
}

// ResetOwnerPassword sets a new password for a shop's owner account.
func ResetOwnerPassword(c *gin.Context) {
	shop, ok := findShop(c)
	if !ok {
		return
	}

	if shop.OwnerID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "This shop has no owner account")
		return
	}

	var input ResetOwnerPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		utils.RespondWithError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if err := config.DB.Model(&models.User{}).
		Where("id = ?", *shop.OwnerID).
		Update("password", hashed).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

var (
	errEmailTaken    = errors.New("email already registered")
	errOwnerNotFound = errors.New("owner not found")
)

func findShop(c *gin.Context) (*models.Shop, bool) {
	shopUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid shop ID format")
		return nil, false
	}

	var shop models.Shop
	if err := config.DB.Preload("Owner").First(&shop, "id = ?", shopUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Shop not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &shop, true
}

func boolOr(value *bool, fallback bool) bool {
	if value != nil {
		return *value
	}
	return fallback
}
