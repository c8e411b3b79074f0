package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/auth"
)

const principalKey = "principal"

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// sessionMiddleware resolves the principal once per request. Anonymous
// requests proceed with no principal; the services decide what needs
// authentication.
func sessionMiddleware(provider auth.Provider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := provider.Authenticate(c.Request)
		if err != nil {
			logger.Warn("session lookup failed", zap.Error(err))
		}
		if principal != nil {
			c.Set(principalKey, principal)
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) *auth.Principal {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, ok := value.(*auth.Principal)
	if !ok {
		return nil
	}
	return principal
}
