// controllers/profile.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the caller's shop record.
func GetProfile(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, shop)
}
