// Package api is the HTTP surface of the storefront: gin router,
// middleware and handlers. Handlers stay thin; they bind the request,
// resolve the principal and delegate to the services.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"github.com/example/storefront/pkg/service"
)

type OrderService interface {
	Create(ctx context.Context, principal *auth.Principal, req service.CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, principal *auth.Principal, id string) (*models.Order, error)
	List(ctx context.Context, principal *auth.Principal, q service.ListOrdersQuery) (*service.Page[models.Order], error)
	UpdateStatus(ctx context.Context, principal *auth.Principal, id, status string) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, principal *auth.Principal, id, status string) (*models.Order, error)
	AddNote(ctx context.Context, principal *auth.Principal, id, body string) (*models.OrderNote, error)
	AuditLog(ctx context.Context, principal *auth.Principal, id string) ([]*repository.AuditEntry, error)
}

type PaymentService interface {
	Verify(ctx context.Context, reference string) (*models.Order, error)
}

type ProductService interface {
	Create(ctx context.Context, principal *auth.Principal, input service.ProductInput) (*models.Product, error)
	Update(ctx context.Context, principal *auth.Principal, id string, input service.ProductInput) (*models.Product, error)
	Discontinue(ctx context.Context, principal *auth.Principal, id string) error
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, principal *auth.Principal, q service.ListProductsQuery) (*service.Page[models.Product], error)
	LowStock(ctx context.Context, principal *auth.Principal) ([]models.Product, error)
}

type UserService interface {
	List(ctx context.Context, principal *auth.Principal, q service.ListUsersQuery) (*service.Page[models.User], error)
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	orders   OrderService
	payments PaymentService
	products ProductService
	users    UserService
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	provider auth.Provider,
	orders OrderService,
	payments PaymentService,
	products ProductService,
	users UserService,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	router.Use(sessionMiddleware(provider, logger))

	return &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		orders:   orders,
		payments: payments,
		products: products,
		users:    users,
	}
}

func (s *Server) SetupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", s.createOrder)
			orders.GET("", s.listOrders)
			orders.GET("/:id", s.getOrder)
			orders.PUT("/:id/status", s.updateOrderStatus)
			orders.PUT("/:id/payment-status", s.updatePaymentStatus)
			orders.POST("/:id/notes", s.addOrderNote)
			orders.GET("/:id/audit", s.orderAuditLog)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/verify", s.verifyPayment)
		}

		products := v1.Group("/products")
		{
			products.GET("", s.listProducts)
			products.GET("/low-stock", s.lowStockProducts)
			products.GET("/:id", s.getProduct)
			products.POST("", s.createProduct)
			products.PUT("/:id", s.updateProduct)
			products.DELETE("/:id", s.discontinueProduct)
		}

		v1.GET("/customers", s.listCustomers)
	}

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("API server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
