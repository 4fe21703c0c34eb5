package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/service"
)

type beginCheckoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *Handler) BeginCheckout(c *gin.Context) {
	claims, _ := requestClaims(c)

	var req beginCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.checkout.Begin(c.Request.Context(), claims.Subject, domain.CustomerInfo{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	switch {
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrMissingFields):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.Error("begin checkout failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start checkout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *Handler) GetCheckout(c *gin.Context) {
	claims, _ := requestClaims(c)

	session, err := h.checkout.Session(c.Request.Context(), claims.Subject)
	if err != nil {
		h.log.Error("load checkout failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load checkout"})
		return
	}
	if session.State != domain.CheckoutStateCollecting {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no checkout session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ConfirmPayment completes the checkout: the pending session is consumed,
// account contact fields override the form, and the persisted order comes
// back with the pre-filled WhatsApp link.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	claims, _ := requestClaims(c)

	var payment service.PaymentDetails
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, err := h.authSvc.UserByID(c.Request.Context(), claims.Subject)
	if err != nil {
		h.log.Error("load account failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}

	// Snapshot the session before completion so the notification can be
	// rendered after the session is discarded.
	session, err := h.checkout.Session(c.Request.Context(), claims.Subject)
	if err != nil {
		h.log.Error("load checkout failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load checkout"})
		return
	}

	result, err := h.checkout.Complete(c.Request.Context(), claims.Subject, account, payment)
	switch {
	case errors.Is(err, service.ErrNoSession):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no checkout session"})
		return
	case errors.Is(err, service.ErrInvalidCard), errors.Is(err, service.ErrInvalidOrder):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.Error("payment confirmation failed", slog.String("trace_id", traceID(c)),
			slog.String("user_id", claims.Subject), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to process order",
			"details": err.Error(),
		})
		return
	}

	name, email := session.Customer.Name, session.Customer.Email
	if account != nil {
		name, email = account.Name, account.Email
	}
	message := service.BuildOrderMessage(name, email, session.Items)

	h.log.Info("order submitted", slog.String("trace_id", traceID(c)),
		slog.String("user_id", claims.Subject), slog.String("order_id", result.OrderID),
		slog.Float64("total", result.Total))

	c.JSON(http.StatusOK, gin.H{
		"orderId":     result.OrderID,
		"total":       result.Total,
		"whatsappUrl": service.WhatsAppLink(h.whatsAppNumber, message),
	})
}
