package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	solanago "github.com/gagliardetto/solana-go"

	"ammcontrol/internal/amm"
	"ammcontrol/internal/models"
	dbconfig "ammcontrol/pkg/config"
	"ammcontrol/pkg/solana"
)

// PoolRecordRequest represents the request body for creating a pool record
type PoolRecordRequest struct {
	Mint0               string  `json:"mint0" binding:"required"`
	Mint1               string  `json:"mint1" binding:"required"`
	FeeNumerator        uint64  `json:"fee_numerator"`
	FeeDenominator      uint64  `json:"fee_denominator" binding:"required"`
	TreasuryAddress     string  `json:"treasury_address"`
	ProtocolFeeBps      *uint16 `json:"protocol_fee_bps"`
	IsNativePool        bool    `json:"is_native_pool"`
	NativeAssetPosition uint8   `json:"native_asset_position"`
}

// ListPoolRecords returns a list of all pool records
func ListPoolRecords(c *gin.Context) {
	var pools []models.PoolRecord
	query := dbconfig.DB
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("native") == "true" {
		query = query.Where("is_native_pool = ?", true)
	}
	if err := query.Find(&pools).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pools)
}

// GetPoolRecord returns a specific pool record by ID
func GetPoolRecord(c *gin.Context) {
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
	c.JSON(http.StatusOK, pool)
}

// CreatePoolRecord creates a new pool record and derives its on-chain addresses
func CreatePoolRecord(c *gin.Context) {
	var request PoolRecordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 费率校验与引擎侧保持一致
	if request.FeeNumerator >= request.FeeDenominator {
		c.JSON(http.StatusBadRequest, gin.H{"error": amm.ErrInvalidProtocolFee.Error()})
		return
	}
	bps := uint16(0)
	if request.ProtocolFeeBps != nil {
		bps = *request.ProtocolFeeBps
	}
	if bps > amm.ProtocolFeeDenominator {
		c.JSON(http.StatusBadRequest, gin.H{"error": amm.ErrInvalidProtocolFee.Error()})
		return
	}
	if request.NativeAssetPosition > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": amm.ErrInvalidInput.Error()})
		return
	}

	mint0, err := solanago.PublicKeyFromBase58(request.Mint0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mint0 address"})
		return
	}
	mint1, err := solanago.PublicKeyFromBase58(request.Mint1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mint1 address"})
		return
	}

	poolState, err := solana.GetPoolStatePDA(mint0, mint1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	authority, err := solana.GetPoolAuthorityPDA(poolState.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pool := models.PoolRecord{
		PoolAddress:         poolState.Address.String(),
		Authority:           authority.Address.String(),
		Mint0:               request.Mint0,
		Mint1:               request.Mint1,
		FeeNumerator:        request.FeeNumerator,
		FeeDenominator:      request.FeeDenominator,
		TreasuryAddress:     request.TreasuryAddress,
		ProtocolFeeBps:      bps,
		IsNativePool:        request.IsNativePool,
		NativeAssetPosition: request.NativeAssetPosition,
		Status:              "active",
	}

	if request.IsNativePool {
		custody, err := solana.GetPoolPdaPDA(poolState.Address)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		vault, err := solana.GetNativeVaultPDA(poolState.Address)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		lpMint, err := solana.GetLpMintPDA(poolState.Address)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// 原生侧余额直接记在持币账户，代币侧走普通金库
		if request.NativeAssetPosition == 0 {
			pool.Vault0 = custody.Address.String()
			pool.Vault1 = vault.Address.String()
		} else {
			pool.Vault0 = vault.Address.String()
			pool.Vault1 = custody.Address.String()
		}
		pool.ShareMint = lpMint.Address.String()
	} else {
		vault0, err := solana.GetVaultPDA(poolState.Address, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		vault1, err := solana.GetVaultPDA(poolState.Address, 1)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		shareMint, err := solana.GetPoolMintPDA(poolState.Address)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		pool.Vault0 = vault0.Address.String()
		pool.Vault1 = vault1.Address.String()
		pool.ShareMint = shareMint.Address.String()
	}

	if err := dbconfig.DB.Create(&pool).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, pool)
}

// UpdatePoolRecordStatus updates the operational status of a pool record
func UpdatePoolRecordStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var pool models.PoolRecord
	if err := dbconfig.DB.First(&pool, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	pool.Status = request.Status
	if err := dbconfig.DB.Save(&pool).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pool)
}

// DeletePoolRecord removes a pool record from the database
func DeletePoolRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := dbconfig.DB.Delete(&models.PoolRecord{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted"})
}
