// controllers/order.go
package controllers

import (
	"errors"
	"net/http"

	"mecanosync-backend/config"
	"mecanosync-backend/services"
	"mecanosync-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChangeOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder creates a new service order; the order number is assigned
// server-side.
func CreateOrder(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := services.NewOrderService(config.DB).Create(shop.ID, input)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders lists the shop's orders with optional search and status filter.
func GetOrders(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	orders, err := services.NewOrderService(config.DB).
		List(shop.ID, c.Query("q"), c.Query("status"))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves one order with items, payments, customer and vehicle.
func GetOrder(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := services.NewOrderService(config.DB).Get(shop.ID, orderUUID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder applies partial changes to an order.
func UpdateOrder(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input services.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := services.NewOrderService(config.DB).Update(shop.ID, orderUUID, input)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ChangeOrderStatus moves an order through its lifecycle, running the
// completion side effect when applicable.
func ChangeOrderStatus(c *gin.Context) {
	shop, ok := currentShop(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input ChangeOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := services.NewOrderService(config.DB).
		ChangeStatus(shop.ID, orderUUID, input.Status)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": order.Status})
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Order, customer or vehicle not found")
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
