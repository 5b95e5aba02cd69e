package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mimetic-labs/resonance/api/handlers"
)

// SetupRoutes initializes all API endpoints
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/runs", handlers.StartRun)
		api.GET("/runs/:runID", handlers.GetRun)
		api.GET("/runs/:runID/results", handlers.GetResults)
		api.GET("/runs/:runID/agents", handlers.GetAgents)
		api.GET("/runs/:runID/graph", handlers.GetGraph)
	}

	router.GET("/ws", handlers.HandleWebSocket)
}
