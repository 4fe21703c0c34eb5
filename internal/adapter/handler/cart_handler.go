package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/service"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type adjustQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *Handler) GetCart(c *gin.Context) {
	claims, _ := requestClaims(c)

	items, err := h.cart.Items(c.Request.Context(), claims.Subject)
	if err != nil {
		h.log.Error("load cart failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	h.cartResponse(c, items)
}

func (h *Handler) AddToCart(c *gin.Context) {
	claims, _ := requestClaims(c)

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}

	product, err := h.catalog.ProductByID(c.Request.Context(), req.ProductID)
	if errors.Is(err, service.ErrProductNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		h.log.Error("lookup product failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to add to cart"})
		return
	}

	items, err := h.cart.Add(c.Request.Context(), claims.Subject, product, req.Quantity)
	if err != nil {
		h.log.Error("add to cart failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to add to cart"})
		return
	}

	h.log.Info("product added to cart", slog.String("trace_id", traceID(c)),
		slog.String("user_id", claims.Subject), slog.String("product_id", req.ProductID),
		slog.Int("quantity", req.Quantity))
	h.cartResponse(c, items)
}

func (h *Handler) AdjustCartItem(c *gin.Context) {
	claims, _ := requestClaims(c)

	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items, err := h.cart.AdjustQuantity(c.Request.Context(), claims.Subject, c.Param("productId"), req.Delta)
	if err != nil {
		h.log.Error("adjust quantity failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}
	h.cartResponse(c, items)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	claims, _ := requestClaims(c)

	items, err := h.cart.Remove(c.Request.Context(), claims.Subject, c.Param("productId"))
	if err != nil {
		h.log.Error("remove cart item failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}
	h.cartResponse(c, items)
}

func (h *Handler) ClearCart(c *gin.Context) {
	claims, _ := requestClaims(c)

	if err := h.cart.Clear(c.Request.Context(), claims.Subject); err != nil {
		h.log.Error("clear cart failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": []domain.LineItem{}, "total": 0.0})
}

func (h *Handler) cartResponse(c *gin.Context, items []domain.LineItem) {
	if items == nil {
		items = []domain.LineItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": domain.CartTotal(items)})
}
