package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/zideo/fintrack-api/internal/middleware"
	"github.com/zideo/fintrack-api/internal/models"
)

// claimsFromContext returns the authenticated caller's claims, or nil on
// routes reachable without the JWT middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, _ := c.Value(middleware.ContextUserKey).(*models.JWTClaims)
	return claims
}
