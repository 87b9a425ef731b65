package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"ticket-gate/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// TerminalIDKey is the gin context key holding the authenticated scanner
// terminal id.
const TerminalIDKey = "terminal_id"

type ScannerMiddleware struct {
	jwtService *jwt.Service
}

func NewScannerMiddleware(jwtService *jwt.Service) *ScannerMiddleware {
	return &ScannerMiddleware{jwtService: jwtService}
}

// RequireScanner admits only requests carrying a valid scanner token issued by
// the PIN verification endpoint.
func (m *ScannerMiddleware) RequireScanner() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Scanner token required",
			})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("Scanner token validation failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(TerminalIDKey, claims.TerminalID.String())
		c.Next()
	}
}
