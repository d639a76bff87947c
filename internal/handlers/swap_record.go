package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ammcontrol/internal/models"
	dbconfig "ammcontrol/pkg/config"
)

// SwapRecordRequest represents the request body for recording an executed swap
type SwapRecordRequest struct {
	PoolAddress     string `json:"pool_address" binding:"required"`
	Direction       string `json:"direction" binding:"required"`
	AmountIn        uint64 `json:"amount_in" binding:"required"`
	AmountOut       uint64 `json:"amount_out" binding:"required"`
	AmountToVault   uint64 `json:"amount_to_vault"`
	ProtocolFee     uint64 `json:"protocol_fee"`
	FeeWaived       bool   `json:"fee_waived"`
	ReserveInBefore uint64 `json:"reserve_in_before"`
	ReserveOutAfter uint64 `json:"reserve_out_after"`
	Signature       string `json:"signature"`
}

// CreateSwapRecord persists an executed swap reported by the executor
func CreateSwapRecord(c *gin.Context) {
	var request SwapRecordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Direction != "0to1" && request.Direction != "1to0" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be 0to1 or 1to0"})
		return
	}

	record := models.SwapRecord{
		PoolAddress:     request.PoolAddress,
		Direction:       request.Direction,
		AmountIn:        request.AmountIn,
		AmountOut:       request.AmountOut,
		AmountToVault:   request.AmountToVault,
		ProtocolFee:     request.ProtocolFee,
		FeeWaived:       request.FeeWaived,
		ReserveInBefore: request.ReserveInBefore,
		ReserveOutAfter: request.ReserveOutAfter,
		Signature:       request.Signature,
	}
	if err := dbconfig.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListSwapRecords returns executed swaps, newest first
func ListSwapRecords(c *gin.Context) {
	query := dbconfig.DB.Order("created_at DESC")
	if pool := c.Query("pool_address"); pool != "" {
		query = query.Where("pool_address = ?", pool)
	}
	if c.Query("fee_waived") == "true" {
		query = query.Where("fee_waived = ?", true)
	}

	limit := 100
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	var records []models.SwapRecord
	if err := query.Limit(limit).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}
