package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	solanago "github.com/gagliardetto/solana-go"

	"ammcontrol/internal/amm"
	"ammcontrol/internal/models"
	dbconfig "ammcontrol/pkg/config"
)

// SwapQuoteRequest represents the request body for a swap quote
type SwapQuoteRequest struct {
	PoolAddress  string `json:"pool_address" binding:"required"`
	ReserveIn    uint64 `json:"reserve_in" binding:"required"`
	ReserveOut   uint64 `json:"reserve_out" binding:"required"`
	AmountIn     uint64 `json:"amount_in" binding:"required"`
	MinAmountOut uint64 `json:"min_amount_out"`
	NativeLeg    string `json:"native_leg"` // in / out / 空
}

// DepositQuoteRequest represents the request body for a deposit quote
type DepositQuoteRequest struct {
	PoolAddress   string `json:"pool_address" binding:"required"`
	VaultBalance0 uint64 `json:"vault_balance0"`
	VaultBalance1 uint64 `json:"vault_balance1"`
	UserBalance0  uint64 `json:"user_balance0"`
	UserBalance1  uint64 `json:"user_balance1"`
	Amount0       uint64 `json:"amount0"`
	Amount1       uint64 `json:"amount1"`
}

// WithdrawQuoteRequest represents the request body for a withdraw quote
type WithdrawQuoteRequest struct {
	PoolAddress   string `json:"pool_address" binding:"required"`
	VaultBalance0 uint64 `json:"vault_balance0"`
	VaultBalance1 uint64 `json:"vault_balance1"`
	BurnAmount    uint64 `json:"burn_amount" binding:"required"`
	HolderShares  uint64 `json:"holder_shares" binding:"required"`
}

// loadEnginePool 从数据库记录重建引擎侧的池状态
func loadEnginePool(poolAddress string) (*amm.PoolState, error) {
	var record models.PoolRecord
	if err := dbconfig.DB.Where("pool_address = ?", poolAddress).First(&record).Error; err != nil {
		return nil, err
	}

	state := &amm.PoolState{
		TotalSharesMinted:   record.TotalShares,
		FeeNumerator:        record.FeeNumerator,
		FeeDenominator:      record.FeeDenominator,
		ProtocolFeeBps:      record.ProtocolFeeBps,
		IsNativePool:        record.IsNativePool,
		NativeAssetPosition: record.NativeAssetPosition,
		NativeReserve:       record.NativeReserve,
	}
	if record.TreasuryAddress != "" {
		treasury, err := solanago.PublicKeyFromBase58(record.TreasuryAddress)
		if err != nil {
			return nil, err
		}
		state.ProtocolTreasury = treasury
	}
	return state, nil
}

// QuoteSwap simulates a swap against the recorded pool without touching the chain
func QuoteSwap(c *gin.Context) {
	var request SwapQuoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool, err := loadEnginePool(request.PoolAddress)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pool not found"})
		return
	}

	leg := amm.NativeLegNone
	switch request.NativeLeg {
	case "in":
		leg = amm.NativeLegIn
	case "out":
		leg = amm.NativeLegOut
	}

	plan, err := amm.Swap(pool, &amm.SwapRequest{
		ReserveIn:    request.ReserveIn,
		ReserveOut:   request.ReserveOut,
		AmountIn:     request.AmountIn,
		MinAmountOut: request.MinAmountOut,
		NativeLeg:    leg,
		// 报价阶段假定国库记录有效，费用以最大口径预估
		TreasuryAccountValid: true,
		CustodyBalance:       pool.NativeReserve + request.ReserveOut,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount_out":      plan.AmountOut,
		"amount_to_vault": plan.AmountToVault,
		"protocol_fee":    plan.ProtocolFeeNative,
		"fee_waived":      plan.FeeWaived,
	})
}

// tokenVaultBalance 返回代币侧金库余额，原生资产所在侧由记录决定
func tokenVaultBalance(pool *amm.PoolState, request *DepositQuoteRequest) uint64 {
	if pool.NativeAssetPosition == 1 {
		return request.VaultBalance0
	}
	return request.VaultBalance1
}

// QuoteDeposit simulates a liquidity deposit
func QuoteDeposit(c *gin.Context) {
	var request DepositQuoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool, err := loadEnginePool(request.PoolAddress)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pool not found"})
		return
	}

	var plan *amm.DepositPlan
	if pool.IsNativePool {
		// 原生池的第一腿是原生数量，第二腿是代币数量
		plan, err = amm.DepositNative(pool, tokenVaultBalance(pool, &request), request.Amount0, request.Amount1, 0)
	} else {
		plan, err = amm.Deposit(pool,
			request.VaultBalance0, request.VaultBalance1,
			request.UserBalance0, request.UserBalance1,
			request.Amount0, request.Amount1)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"share_mint": plan.ShareMint,
		"deposit0":   plan.Deposit0,
		"deposit1":   plan.Deposit1,
	})
}

// QuoteWithdraw simulates a share burn
func QuoteWithdraw(c *gin.Context) {
	var request WithdrawQuoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool, err := loadEnginePool(request.PoolAddress)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pool not found"})
		return
	}

	var plan *amm.WithdrawPlan
	if pool.IsNativePool {
		tokenSide := request.VaultBalance1
		if pool.NativeAssetPosition == 1 {
			tokenSide = request.VaultBalance0
		}
		plan, err = amm.WithdrawNative(pool, tokenSide, request.BurnAmount, request.HolderShares)
	} else {
		plan, err = amm.Withdraw(pool, request.VaultBalance0, request.VaultBalance1, request.BurnAmount, request.HolderShares)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount0": plan.Amount0,
		"amount1": plan.Amount1,
	})
}
