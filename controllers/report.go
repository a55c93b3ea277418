// controllers/report.go
package controllers

import (
	"net/http"

	"mecanosync-backend/config"
	"mecanosync-backend/services"
	"mecanosync-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetBillingReport returns the billing summary for the shop, optionally
// limited to a payment-date window.
func GetBillingReport(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	summary, err := services.NewReportService(config.DB).Billing(shop.ID, from, to)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute billing summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
