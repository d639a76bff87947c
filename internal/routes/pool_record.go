package routes

import (
	"github.com/gin-gonic/gin"

	"ammcontrol/internal/handlers"
)

// SetupPoolRecordRoutes sets up all routes related to pool record management
func SetupPoolRecordRoutes(r *gin.Engine) {
	pool := r.Group("/pool-record")
	{
		pool.GET("", handlers.ListPoolRecords)
		pool.GET("/:id", handlers.GetPoolRecord)
		pool.POST("", handlers.CreatePoolRecord)
		pool.PUT("/:id/status", handlers.UpdatePoolRecordStatus)
		pool.DELETE("/:id", handlers.DeletePoolRecord)
		pool.POST("/:id/reconcile", handlers.TriggerReconcile)
		pool.POST("/:id/provision", handlers.ProvisionPoolVaults)
	}
}
