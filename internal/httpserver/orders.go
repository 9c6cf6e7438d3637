package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-storefront/internal/domain"
)

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func listOrdersHandler(ledger ledgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := ledger.Orders(c.Request.Context(), sessionID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load orders"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func updateOrderStatusHandler(ledger ledgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "status required"})
			return
		}
		status, ok := domain.ParseOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unknown status"})
			return
		}
		if err := ledger.UpdateStatus(c.Request.Context(), sessionID(c), c.Param("orderId"), status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update order"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
