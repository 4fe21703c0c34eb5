package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/auth"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/service"
)

// Handler wires the storefront services to the HTTP surface.
type Handler struct {
	log      *slog.Logger
	tokens   *auth.TokenManager
	authSvc  *service.AuthService
	catalog  *service.CatalogService
	cart     *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService

	// whatsAppNumber is the destination for the post-submission deep link;
	// blank opens the share sheet without a recipient.
	whatsAppNumber string
}

func NewHandler(
	log *slog.Logger,
	tokens *auth.TokenManager,
	authSvc *service.AuthService,
	catalog *service.CatalogService,
	cart *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	whatsAppNumber string,
) *Handler {
	return &Handler{
		log:            log,
		tokens:         tokens,
		authSvc:        authSvc,
		catalog:        catalog,
		cart:           cart,
		checkout:       checkout,
		orders:         orders,
		whatsAppNumber: whatsAppNumber,
	}
}

// RegisterRoutes mounts the API on the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(h.traceMiddleware())

	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		api.GET("/products", h.ListProducts)
		api.GET("/products/:slug", h.GetProduct)
		api.GET("/search", h.SearchProducts)
		api.GET("/categories", h.ListCategories)
		api.GET("/categories/:slug/products", h.ListCategoryProducts)

		// The order endpoint permits guest checkout; auth is optional.
		api.POST("/orders", h.optionalAuth(), h.CreateOrder)
	}

	authed := api.Group("")
	authed.Use(h.requireAuth())
	{
		authed.GET("/cart", h.GetCart)
		authed.POST("/cart/items", h.AddToCart)
		authed.PATCH("/cart/items/:productId", h.AdjustCartItem)
		authed.DELETE("/cart/items/:productId", h.RemoveCartItem)
		authed.DELETE("/cart", h.ClearCart)

		authed.POST("/checkout", h.BeginCheckout)
		authed.GET("/checkout", h.GetCheckout)
		authed.POST("/checkout/payment", h.ConfirmPayment)

		authed.GET("/orders", h.ListOrders)
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
