// controllers/middleware.go
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

// Module names used by RequireModule.
const (
	ModuleCustomers = "customers"
	ModuleOrders    = "orders"
	ModuleBilling   = "billing"
	ModuleReports   = "reports"
)

// TenantMiddleware resolves the caller's shop once per request and stores
// it in the context. Superusers have no shop and are denied here; an
// identity owning no active shop is denied outright rather than shown
// empty data.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool("superuser") {
			utils.RespondWithError(c, http.StatusForbidden, "Superuser accounts have no shop context")
			return
		}

		userID, exists := c.Get("userId")
		if !exists {
			utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
			return
		}

		userUUID, err := uuid.Parse(userID.(string))
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
			return
		}

		var shop models.Shop
		if err := config.DB.Where("owner_id = ? AND is_active = ?", userUUID, true).
			First(&shop).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Deny and force the client back to sign-in.
				utils.RespondWithError(c, http.StatusUnauthorized, "No active shop associated with this account")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}

		c.Set("shop", &shop)
		c.Next()
	}
}

// RequireSuperuser guards the tenant-administration routes.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("superuser") {
			utils.RespondWithError(c, http.StatusForbidden, "Superuser privileges required")
			return
		}
		c.Next()
	}
}

// RequireModule rejects requests to functional areas the shop has not
// enabled.
func RequireModule(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := currentShop(c)
		if !ok {
			return
		}

		enabled := false
		switch module {
		case ModuleCustomers:
			enabled = shop.CustomersModule
		case ModuleOrders:
			enabled = shop.OrdersModule
		case ModuleBilling:
			enabled = shop.BillingModule
		case ModuleReports:
			enabled = shop.ReportsModule
		}

		if !enabled {
			utils.RespondWithError(c, http.StatusForbidden, "Module not enabled for this shop")
			return
		}
		c.Next()
	}
}

func currentShop(c *gin.Context) (*models.Shop, bool) {
	value, exists := c.Get("shop")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Shop not found in context")
		return nil, false
	}
	shop, ok := value.(*models.Shop)
	if !ok {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid shop context")
		return nil, false
	}
	return shop, true
}
