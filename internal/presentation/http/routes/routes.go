// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/LeadPulse/leadpulse-go/internal/application/container"
	"github.com/LeadPulse/leadpulse-go/internal/presentation/http/handlers"
	"github.com/LeadPulse/leadpulse-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	chatHandlers := handlers.NewChatHandlers(container.ChatService, container.Logger)
	leadHandlers := handlers.NewLeadHandlers(container.LeadService, container.Logger)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.AnalyticsService, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.DB)

	api := r.Group("/api/v1")
	{
		// Public endpoints: the embedded chat widget
		api.GET("/health", healthHandlers.GetHealth)
		api.POST("/chat", chatHandlers.PostChat)
		api.GET("/chat/ws", chatHandlers.GetChatWS)
		api.POST("/auth/login", authHandlers.PostLogin)

		// Admin dashboard endpoints behind bearer auth
		admin := api.Group("")
		admin.Use(middleware.AdminAuthMiddleware(container.AuthService))
		{
			admin.GET("/leads", leadHandlers.GetLeads)
			admin.GET("/leads/:id", leadHandlers.GetLead)
			admin.PUT("/leads/:id/status", leadHandlers.PutLeadStatus)
			admin.GET("/analytics/summary", analyticsHandlers.GetSummary)
		}
	}

	return r
}
