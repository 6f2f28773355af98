package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutsvc "folik-store/internal/service/checkout"
)

func beginCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := deps.Checkout.Begin(c.Request.Context(), sessionKey(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if result.State == checkoutsvc.StateEmptyCart {
			c.Redirect(http.StatusSeeOther, "/cart")
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func submitCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed form"})
			return
		}
		form := make(map[string]string, len(c.Request.PostForm))
		for field, values := range c.Request.PostForm {
			if len(values) > 0 {
				form[field] = values[0]
			}
		}

		result, err := deps.Checkout.Submit(c.Request.Context(), sessionKey(c), form)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed, try again"})
			return
		}

		switch result.State {
		case checkoutsvc.StateEmptyCart:
			c.Redirect(http.StatusSeeOther, "/cart")
		case checkoutsvc.StateFailedValidation:
			c.JSON(http.StatusUnprocessableEntity, result)
		default:
			c.JSON(http.StatusCreated, result)
		}
	}
}
