package routes

import (
	"github.com/gin-gonic/gin"

	"ammcontrol/internal/handlers"
	"ammcontrol/internal/middleware"
)

// SetupQuoteRoutes sets up swap/liquidity quote simulation routes
func SetupQuoteRoutes(r *gin.Engine) {
	quote := r.Group("/quote")
	// 报价接口对外开放，按来源 IP 限流
	quote.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 20,
		Burst:             40,
	}))
	{
		quote.POST("/swap", handlers.QuoteSwap)
		quote.POST("/deposit", handlers.QuoteDeposit)
		quote.POST("/withdraw", handlers.QuoteWithdraw)
	}
}
