package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/config"
	"github.com/iliyamo/qshe-portal/internal/handler"
	"github.com/iliyamo/qshe-portal/internal/middleware"
	"github.com/iliyamo/qshe-portal/internal/model"
)

// Guards carries the shared middleware inputs. Redis may be nil, in
// which case rate limiting and caching are disabled.
type Guards struct {
	Verifier  middleware.TokenVerifier
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger
}

// authenticated is the chain every protected route runs through.
func (g Guards) authenticated() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(g.Verifier, g.Log),
		middleware.RequireRole(model.RoleAdmin, model.RoleVisitor),
	}
}

// RegisterRoutes registers the operational endpoints that do not
// require authentication.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers credential issuance under /auth. Register and
// login are rate limited per client IP; /auth/me requires a token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	grp := e.Group("/auth")
	limited := middleware.NewTokenBucket(g.RateLimit, g.Redis, g.Log)
	grp.POST("/register", a.Register, limited)
	grp.POST("/login", a.Login, limited)
	grp.GET("/me", a.Me, g.authenticated()...)
}
