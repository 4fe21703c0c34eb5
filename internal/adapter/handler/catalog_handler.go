package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/service"
)

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		h.log.Error("list products failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.ProductBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, service.ErrProductNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		h.log.Error("get product failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *Handler) SearchProducts(c *gin.Context) {
	products, err := h.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.log.Error("search failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.log.Error("list categories failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) ListCategoryProducts(c *gin.Context) {
	category, products, err := h.catalog.CategoryProducts(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, service.ErrCategoryNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err != nil {
		h.log.Error("list category products failed", slog.String("trace_id", traceID(c)), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "products": products})
}
