package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires the storefront and admin routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/", indexHandler(deps))
	router.GET("/products", listProductsHandler(deps))
	router.GET("/products/:id", getProductHandler(deps))

	// Everything touching the cart runs behind the session middleware, so an
	// owner key always exists before the first cart read or write.
	store := router.Group("/", sessionMiddleware(deps.Session))
	store.GET("/cart", viewCartHandler(deps))
	store.POST("/cart/add/:productID", addToCartHandler(deps))
	store.POST("/cart/remove/:itemID", removeFromCartHandler(deps))
	store.POST("/cart/update/:itemID/:action", updateQuantityHandler(deps))
	store.POST("/products/:id/buy", buyNowHandler(deps))
	store.GET("/checkout", beginCheckoutHandler(deps))
	store.POST("/checkout", submitCheckoutHandler(deps))

	admin := router.Group("/admin")
	admin.POST("/products", upsertProductHandler(deps))
	admin.DELETE("/products/:id", deleteProductHandler(deps))
	admin.PUT("/products/:id/gallery", replaceGalleryHandler(deps))
	admin.GET("/orders", listOrdersHandler(deps))
	admin.GET("/orders/:id", getOrderHandler(deps))
	admin.POST("/orders/:id/processed", setProcessedHandler(deps))

	return router
}
