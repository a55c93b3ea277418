package controllers

import (
	"net/http"
	"time"

	"mecanosync-backend/config"
	"mecanosync-backend/services"
	"mecanosync-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboard assembles the shop's landing-page numbers: open and overdue
// orders, this month's paid revenue, active customers, the five latest
// orders and the six-month revenue series.
func GetDashboard(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	reports := services.NewReportService(config.DB)
	now := time.Now()

	openOrders, err := reports.OpenOrderCount(shop.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count open orders")
		return
	}

	monthlyRevenue, err := reports.MonthlyRevenue(shop.ID, now.Month(), now.Year())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute monthly revenue")
		return
	}

	activeCustomers, err := reports.ActiveCustomerCount(shop.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count customers")
		return
	}

	overdueOrders, err := reports.OverdueOrderCount(shop.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count overdue orders")
		return
	}

	recentOrders, err := reports.RecentOrders(shop.ID, 5)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve recent orders")
		return
	}

	revenueSeries, err := reports.RevenueSeries(shop.ID, 6)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute revenue series")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"openOrders":      openOrders,
		"monthlyRevenue":  monthlyRevenue,
		"activeCustomers": activeCustomers,
		"overdueOrders":   overdueOrders,
		"recentOrders":    recentOrders,
		"revenueSeries":   revenueSeries,
	})
}
