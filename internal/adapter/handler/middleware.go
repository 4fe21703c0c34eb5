package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/auth"
)

const traceIDKey = "trace_id"

// traceMiddleware assigns each request an ID for log correlation.
func (h *Handler) traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-Id")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(traceIDKey, traceID)
		c.Writer.Header().Set("X-Trace-Id", traceID)
		c.Next()
	}
}

func traceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// requireAuth gates the cart and checkout endpoints behind a valid bearer
// token; unauthenticated callers get a 401 with a login redirect hint.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := h.bearerClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": "/auth/login",
			})
			return
		}
		ctx := context.WithValue(c.Request.Context(), auth.ClaimsKey, claims)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// optionalAuth attaches claims when a valid token is present and lets the
// request through either way. Guest checkout rides on this.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := h.bearerClaims(c); ok {
			ctx := context.WithValue(c.Request.Context(), auth.ClaimsKey, claims)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func (h *Handler) bearerClaims(c *gin.Context) (auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return auth.Claims{}, false
	}
	claims, err := h.tokens.Verify(token)
	if err != nil {
		return auth.Claims{}, false
	}
	return claims, true
}

func requestClaims(c *gin.Context) (auth.Claims, bool) {
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	return claims, ok
}
