package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"folik-store/internal/domain"
	orderrepo "folik-store/internal/repository/order"
	productrepo "folik-store/internal/repository/product"
	cartsvc "folik-store/internal/service/cart"
	checkoutsvc "folik-store/internal/service/checkout"
	sessionsvc "folik-store/internal/service/session"
)

// CatalogService exposes the storefront's read-only product views.
type CatalogService interface {
	Featured(ctx context.Context) ([]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// CartService exposes session-scoped cart operations.
type CartService interface {
	Add(ctx context.Context, sessionKey, productID string) (*domain.CartItem, error)
	Remove(ctx context.Context, sessionKey, itemID string) error
	Adjust(ctx context.Context, sessionKey, itemID, direction string) error
	ViewCart(ctx context.Context, sessionKey string) (*cartsvc.View, error)
}

// CheckoutService drives the cart-to-order transition.
type CheckoutService interface {
	Begin(ctx context.Context, sessionKey string) (*checkoutsvc.Result, error)
	Submit(ctx context.Context, sessionKey string, form map[string]string) (*checkoutsvc.Result, error)
}

// Deps collects everything the router needs. Admin endpoints work against the
// repositories directly; the storefront goes through the services.
type Deps struct {
	Catalog  CatalogService
	Cart     CartService
	Checkout CheckoutService
	Session  *sessionsvc.Service
	Products productrepo.Repository
	Orders   orderrepo.Repository
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	db         *pgxpool.Pool
}

// New builds a Server with the storefront and admin routes.
func New(addr string, logger *log.Logger, db *pgxpool.Pool, deps Deps) (*Server, error) {
	router := buildRouter(logger, db, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
		db:         db,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
