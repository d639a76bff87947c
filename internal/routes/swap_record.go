package routes

import (
	"github.com/gin-gonic/gin"

	"ammcontrol/internal/handlers"
)

// SetupSwapRecordRoutes sets up routes for executed swap records
func SetupSwapRecordRoutes(r *gin.Engine) {
	swap := r.Group("/swap-record")
	{
		swap.GET("", handlers.ListSwapRecords)
		swap.POST("", handlers.CreateSwapRecord)
	}
}
