package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelsmart/portal/internal/auth"
	"github.com/hostelsmart/portal/internal/domain"
)

// SetupRoutes configures the API routes. Health routes are registered
// by the server package; metricsHandler serves Prometheus metrics.
func SetupRoutes(router *gin.Engine, handler *Handler, tokens *auth.JWTManager, metricsHandler http.Handler) {
	router.GET("/metrics", gin.WrapH(metricsHandler))

	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", handler.Login)

	authed := v1.Group("")
	authed.Use(AuthMiddleware(tokens))

	complaints := authed.Group("/complaints")
	complaints.GET("", handler.ListComplaints)                                                           // GET /api/v1/complaints
	complaints.POST("", RequireRole(domain.RoleStudent), handler.SubmitComplaint)                        // POST /api/v1/complaints
	complaints.POST("/preview", RequireRole(domain.RoleStudent), handler.PreviewComplaint)               // POST /api/v1/complaints/preview
	complaints.PATCH("/:id/status", RequireRole(domain.RoleAdmin), handler.UpdateComplaintStatus)        // PATCH /api/v1/complaints/:id/status

	attendance := authed.Group("/attendance")
	attendance.POST("", RequireRole(domain.RoleStudent), handler.RateLimitMiddleware(), handler.Punch)   // POST /api/v1/attendance
	attendance.GET("", RequireRole(domain.RoleAdmin), handler.ListAttendance)                            // GET /api/v1/attendance
}
