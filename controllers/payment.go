// controllers/payment.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"mecanosync-backend/config"
	"mecanosync-backend/services"
	"mecanosync-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChangePaymentStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type ChangePaymentMethodInput struct {
	Method string `json:"method" binding:"required"`
}

// GetPayments lists the shop's payments with the billing summary, both
// honoring an optional payment-date window (?from=2026-01-01&to=...).
func GetPayments(c *gin.Context) {
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

	payments, err := services.NewPaymentService(config.DB).List(shop.ID, from, to)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	summary, err := services.NewReportService(config.DB).Billing(shop.ID, from, to)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute billing summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"summary":  summary,
	})
}

// ChangePaymentStatus updates a payment's status; marking it paid stamps
// today's date.
func ChangePaymentStatus(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	paymentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID format")
		return
	}

	var input ChangePaymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.NewPaymentService(config.DB).
		ChangeStatus(shop.ID, paymentUUID, input.Status)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": payment.Status})
}

// ChangePaymentMethod updates a payment's method unless it is settled.
func ChangePaymentMethod(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	paymentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID format")
		return
	}

	var input ChangePaymentMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.NewPaymentService(config.DB).
		ChangeMethod(shop.ID, paymentUUID, input.Method)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "method": payment.Method})
}

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, services.ErrInvalidMethod):
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
	case errors.Is(err, services.ErrPaymentAlreadySettled):
		utils.RespondWithError(c, http.StatusBadRequest, "Cannot change the method of a paid payment")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" date, expected YYYY-MM-DD")
		return nil, false
	}
	return &parsed, true
}
