package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qshe-portal/internal/handler"
	"github.com/iliyamo/qshe-portal/internal/middleware"
	"github.com/iliyamo/qshe-portal/internal/model"
)

// RegisterQSHE registers the safety metric and medical report stores.
// Any authenticated user may create and list; the review routes are
// admin-only, which the service layer enforces.
func RegisterQSHE(e *echo.Echo, s *handler.SafetyMetricHandler, m *handler.MedicalReportHandler, g Guards) {
	grp := e.Group("/qshe", g.authenticated()...)

	grp.POST("/safety-metrics", s.Create)
	grp.GET("/safety-metrics", s.List)
	grp.PUT("/safety-metrics/:id/status", s.UpdateStatus)

	grp.POST("/medical-reports", m.Create)
	grp.GET("/medical-reports", m.List)
	grp.PUT("/medical-reports/:id/review", m.Review)
}

// RegisterSecurity registers visitor requests and the admin-only
// reference lists. The reference lists are cached in Redis; the role
// check runs before the cache so a cached body is never served to a
// visitor.
func RegisterSecurity(e *echo.Echo, v *handler.VisitorRequestHandler, r *handler.SecurityHandler, g Guards) {
	grp := e.Group("/security", g.authenticated()...)

	grp.POST("/visitor-requests", v.Create)
	grp.GET("/visitor-requests", v.List)
	grp.PUT("/visitor-requests/:id/review", v.Review)

	adminOnly := []echo.MiddlewareFunc{
		middleware.RequireRole(model.RoleAdmin),
		middleware.NewRedisCache(g.Cache, g.Redis, g.Log),
	}
	grp.GET("/competency-assessments", r.ListAssessments, adminOnly...)
	grp.GET("/personnel", r.ListPersonnel, adminOnly...)
}

// RegisterDashboard registers the aggregate counts.
func RegisterDashboard(e *echo.Echo, d *handler.DashboardHandler, g Guards) {
	e.GET("/dashboard/stats", d.Stats, g.authenticated()...)
}
