package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/service/checkout"
)

type checkoutRequest struct {
	checkout.Form
	UserID string `json:"userId"`
}

func checkoutHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}

		placed, err := svc.PlaceOrder(c.Request.Context(), sessionID(c), bearerToken(c), req.UserID, req.Form)
		if err != nil {
			var verr *checkout.ValidationError
			switch {
			case errors.As(err, &verr):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
			case errors.Is(err, domain.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"message": "no items selected for checkout"})
			case errors.Is(err, domain.ErrSubmitFailed):
				c.JSON(http.StatusBadGateway, gin.H{"message": "Order Failed! Please try again."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": "checkout failed"})
			}
			return
		}

		c.JSON(http.StatusCreated, placed)
	}
}
