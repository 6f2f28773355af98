package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"folik-store/internal/domain"
)

type upsertProductRequest struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	ImageURL      string              `json:"imageUrl"`
	IsAvailable   *bool               `json:"isAvailable"`
	IsFeatured    bool                `json:"isFeatured"`
	Stock         int                 `json:"stock"`
}

type orderResponse struct {
	domain.Order
	Total decimal.Decimal `json:"total"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{Order: o, Total: o.Total()}
}

func upsertProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req upsertProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
			return
		}
		if req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
			return
		}
		if req.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
			return
		}
		if req.DiscountPrice.Valid && req.DiscountPrice.Decimal.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discount price must not be negative"})
			return
		}
		if req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must not be negative"})
			return
		}

		available := true
		if req.IsAvailable != nil {
			available = *req.IsAvailable
		}

		product, err := deps.Products.Upsert(c.Request.Context(), domain.Product{
			ID:            req.ID,
			Title:         req.Title,
			Description:   req.Description,
			Price:         req.Price,
			DiscountPrice: req.DiscountPrice,
			ImageURL:      req.ImageURL,
			IsAvailable:   available,
			IsFeatured:    req.IsFeatured,
			Stock:         req.Stock,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func deleteProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := deps.Products.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func replaceGalleryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Images []string `json:"images"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
			return
		}
		if err := deps.Products.ReplaceGallery(c.Request.Context(), id, req.Images); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := deps.Orders.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		out := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, toOrderResponse(o))
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

func getOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		order, err := deps.Orders.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*order))
	}
}

func setProcessedHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		req := struct {
			Processed *bool `json:"processed"`
		}{}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
				return
			}
		}
		processed := true
		if req.Processed != nil {
			processed = *req.Processed
		}
		if err := deps.Orders.SetProcessed(c.Request.Context(), id, processed); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
