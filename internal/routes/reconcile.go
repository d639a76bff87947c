package routes

import (
	"github.com/gin-gonic/gin"

	"ammcontrol/internal/handlers"
)

// SetupReconcileRoutes sets up drift report and provisioning observation routes
func SetupReconcileRoutes(r *gin.Engine) {
	drift := r.Group("/drift-report")
	{
		drift.GET("", handlers.ListDriftReports)
	}

	stat := r.Group("/reserve-stat")
	{
		stat.GET("", handlers.ListReserveStats)
	}

	provision := r.Group("/provision-log")
	{
		provision.GET("", handlers.ListProvisionLogs)
	}
}
