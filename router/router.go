package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/JaneshKapoor/nayraa/handlers"
	"github.com/JaneshKapoor/nayraa/middleware"
)

func Register(r *gin.Engine, app *handlers.App, sessions *handlers.SessionHandler, search *handlers.SearchHandler, reports *handlers.ReportHandler) {
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	// Health check
	r.GET("/health", app.Health)

	api := r.Group("/api")
	{
		api.GET("/locations/search", search.Search)

		api.POST("/sessions", sessions.Start)
		api.GET("/sessions/:id", sessions.Get)
		api.DELETE("/sessions/:id", sessions.Destroy)
		api.POST("/sessions/:id/photo", sessions.CapturePhoto)
		api.POST("/sessions/:id/photo/retake", sessions.RetakePhoto)
		api.POST("/sessions/:id/recording/start", sessions.StartRecording)
		api.POST("/sessions/:id/recording/stop", sessions.StopRecording)
		api.POST("/sessions/:id/video/retake", sessions.RetakeVideo)
		api.POST("/sessions/:id/permissions/:capability/retry", sessions.RetryPermission)
		api.POST("/sessions/:id/submit", sessions.Submit)

		api.GET("/reports/:ticketId", reports.GetByTicket)

		// Technician flow is not built yet; the role button is a stub.
		api.POST("/roles/technician", func(c *gin.Context) {
			c.JSON(http.StatusNotImplemented, gin.H{"message": "Technician mode is not implemented yet."})
		})
	}
}
