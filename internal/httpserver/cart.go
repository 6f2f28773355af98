package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"folik-store/internal/domain"
)

type cartItemResponse struct {
	domain.CartItem
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

func toCartResponse(items []domain.CartItem, total decimal.Decimal) cartResponse {
	out := cartResponse{Items: make([]cartItemResponse, 0, len(items)), Total: total}
	for _, item := range items {
		out.Items = append(out.Items, cartItemResponse{CartItem: item, LineTotal: item.LineTotal()})
	}
	return out
}

func viewCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := deps.Cart.ViewCart(c.Request.Context(), sessionKey(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, toCartResponse(view.Items, view.Total))
	}
}

func addToCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := pathID(c, "productID")
		if !ok {
			return
		}
		if _, err := deps.Cart.Add(c.Request.Context(), sessionKey(c), productID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/cart")
	}
}

func removeFromCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "itemID")
		if !ok {
			return
		}
		if err := deps.Cart.Remove(c.Request.Context(), sessionKey(c), itemID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/cart")
	}
}

func updateQuantityHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "itemID")
		if !ok {
			return
		}
		err := deps.Cart.Adjust(c.Request.Context(), sessionKey(c), itemID, c.Param("action"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Redirect(http.StatusSeeOther, "/cart")
	}
}

// buyNowHandler adds the product to the cart and sends the visitor straight
// to checkout.
func buyNowHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := pathID(c, "id")
		if !ok {
			return
		}
		if _, err := deps.Cart.Add(c.Request.Context(), sessionKey(c), productID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/checkout")
	}
}
