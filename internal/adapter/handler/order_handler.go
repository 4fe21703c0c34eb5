package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/service"
)

type createOrderRequest struct {
	Customer domain.CustomerInfo `json:"customer"`
	Items    []domain.LineItem   `json:"items"`
	Payment  *domain.PaymentInfo `json:"payment"`
}

// CreateOrder is the order creation endpoint: a JSON body with customer,
// items, and optional payment yields {orderId} on success. Guests are
// allowed; a valid bearer token attributes the order to the account.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data. Customer and items are required.",
		})
		return
	}

	var userID *string
	if claims, ok := requestClaims(c); ok {
		sub := claims.Subject
		userID = &sub
	}

	result, err := h.orders.Submit(c.Request.Context(), service.SubmitOrderInput{
		Customer: req.Customer,
		Items:    req.Items,
		Payment:  req.Payment,
		UserID:   userID,
	})
	if errors.Is(err, service.ErrInvalidOrder) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data. Customer and items are required.",
		})
		return
	}
	if err != nil {
		h.log.Error("create order failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "An error occurred while processing your order",
			"details": err.Error(),
		})
		return
	}

	h.log.Info("order created", slog.String("trace_id", traceID(c)),
		slog.String("order_id", result.OrderID), slog.Float64("total", result.Total))
	c.JSON(http.StatusOK, gin.H{"orderId": result.OrderID})
}

func (h *Handler) ListOrders(c *gin.Context) {
	claims, _ := requestClaims(c)

	orders, err := h.orders.History(c.Request.Context(), claims.Subject)
	if err != nil {
		h.log.Error("list orders failed", slog.String("trace_id", traceID(c)),
			slog.String("user_id", claims.Subject), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
