package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore-storefront/internal/domain"
)

type cartItemPayload struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Price  int64  `json:"price"`
	Image  string `json:"image"`
}

type cartAction struct {
	Action   string           `json:"action"`
	Item     *cartItemPayload `json:"item,omitempty"`
	ID       string           `json:"id,omitempty"`
	Quantity int              `json:"quantity,omitempty"`
	Selected *bool            `json:"selected,omitempty"`
}

type cartUpdateRequest struct {
	Actions []cartAction `json:"actions"`
}

type cartView struct {
	Items      []domain.CartItem `json:"items"`
	TotalPrice int64             `json:"totalPrice"`
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := buildCartView(c, carts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load cart"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// updateCartHandler applies a list of cart actions in order, then returns the
// resulting cart.
func updateCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		if len(req.Actions) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "actions required"})
			return
		}

		ctx := c.Request.Context()
		sid := sessionID(c)
		for _, action := range req.Actions {
			var err error
			switch strings.TrimSpace(action.Action) {
			case "addItem":
				if action.Item == nil {
					c.JSON(http.StatusBadRequest, gin.H{"message": "item required"})
					return
				}
				qty := action.Quantity
				if qty == 0 {
					qty = 1
				}
				err = carts.Add(ctx, sid, domain.CartItem{
					ID:     action.Item.ID,
					Title:  action.Item.Title,
					Author: action.Item.Author,
					Price:  action.Item.Price,
					Image:  action.Item.Image,
				}, qty)
			case "removeItem":
				err = carts.Remove(ctx, sid, action.ID)
			case "removeItemCompletely":
				err = carts.RemoveCompletely(ctx, sid, action.ID)
			case "toggleSelect":
				err = carts.ToggleSelect(ctx, sid, action.ID)
			case "selectAll":
				if action.Selected == nil {
					c.JSON(http.StatusBadRequest, gin.H{"message": "selected required"})
					return
				}
				err = carts.SelectAll(ctx, sid, *action.Selected)
			case "clearCart":
				err = carts.Clear(ctx, sid)
			default:
				c.JSON(http.StatusBadRequest, gin.H{"message": "unsupported action"})
				return
			}
			if err != nil {
				if errors.Is(err, domain.ErrItemIDRequired) || errors.Is(err, domain.ErrInvalidQuantity) {
					c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update cart"})
				return
			}
		}

		view, err := buildCartView(c, carts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load cart"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func buildCartView(c *gin.Context, carts cartService) (*cartView, error) {
	ctx := c.Request.Context()
	sid := sessionID(c)
	items, err := carts.Items(ctx, sid)
	if err != nil {
		return nil, err
	}
	total, err := carts.TotalPrice(ctx, sid)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return &cartView{Items: items, TotalPrice: total}, nil
}
