package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ammcontrol/internal/models"
	"ammcontrol/internal/reconciler"
	dbconfig "ammcontrol/pkg/config"
)

// TriggerReconcile enqueues a reserve reconciliation for a native pool
func TriggerReconcile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var pool models.PoolRecord
	if err := dbconfig.DB.First(&pool, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	if !pool.IsNativePool {
		c.JSON(http.StatusBadRequest, gin.H{"error": "this operation is only for native pools"})
		return
	}

	publisher, err := dbconfig.NewPublisher()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer publisher.Close()

	msg := reconciler.ReconcileMessage{
		PoolAddress: pool.PoolAddress,
		Source:      "api",
	}
	if err := publisher.Publish(reconciler.QueueReconcile, msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Reconcile enqueued", "pool_address": pool.PoolAddress})
}

// ListDriftReports returns drift reports, optionally filtered by pool address
func ListDriftReports(c *gin.Context) {
	query := dbconfig.DB.Order("created_at DESC")
	if pool := c.Query("pool_address"); pool != "" {
		query = query.Where("pool_address = ?", pool)
	}
	if c.Query("drift_only") == "true" {
		query = query.Where("drift != 0")
	}

	limit := 100
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	var reports []models.DriftReport
	if err := query.Limit(limit).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// ListReserveStats returns recorded reserve snapshots for a pool
func ListReserveStats(c *gin.Context) {
	pool := c.Query("pool_address")
	if pool == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pool_address is required"})
		return
	}

	var stats []models.PoolReserveStat
	if err := dbconfig.DB.Where("pool_address = ?", pool).
		Order("record_time DESC").Limit(288).Find(&stats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListProvisionLogs returns vault provisioning history for a pool
func ListProvisionLogs(c *gin.Context) {
	query := dbconfig.DB.Order("created_at DESC")
	if pool := c.Query("pool_address"); pool != "" {
		query = query.Where("pool_address = ?", pool)
	}

	var logs []models.VaultProvisionLog
	if err := query.Limit(200).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
