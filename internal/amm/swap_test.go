package amm

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feeOnlyPool() *PoolState {
	return &PoolState{FeeNumerator: 3, FeeDenominator: 1000}
}

func TestSwap(t *testing.T) {
	t.Run("Constant Product With Lp Fee", func(t *testing.T) {
		plan, err := Swap(feeOnlyPool(), &SwapRequest{
			ReserveIn:  1000,
			ReserveOut: 1000,
			AmountIn:   100,
		})
		require.NoError(t, err)
		// 100 * 997/1000 = 99 in after fee, 99*1000/1099 floors to 90
		assert.Equal(t, uint64(90), plan.AmountOut)
		assert.Equal(t, uint64(100), plan.AmountToVault)
		assert.Zero(t, plan.ProtocolFeeNative)
		assert.False(t, plan.FeeWaived)
	})

	t.Run("Empty Reserves", func(t *testing.T) {
		_, err := Swap(feeOnlyPool(), &SwapRequest{ReserveIn: 0, ReserveOut: 1000, AmountIn: 10})
		assert.ErrorIs(t, err, ErrInsufficientLiquidity)
	})

	t.Run("Zero Input", func(t *testing.T) {
		_, err := Swap(feeOnlyPool(), &SwapRequest{ReserveIn: 1000, ReserveOut: 1000})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Minimum Output Not Met", func(t *testing.T) {
		_, err := Swap(feeOnlyPool(), &SwapRequest{
			ReserveIn:    1000,
			ReserveOut:   1000,
			AmountIn:     100,
			MinAmountOut: 91,
		})
		assert.ErrorIs(t, err, ErrNotEnoughOut)
	})

	t.Run("Bad Fee Config", func(t *testing.T) {
		pool := &PoolState{FeeNumerator: 2, FeeDenominator: 1}
		_, err := Swap(pool, &SwapRequest{ReserveIn: 1000, ReserveOut: 1000, AmountIn: 100})
		assert.ErrorIs(t, err, ErrInvalidProtocolFee)
	})
}

func TestSwapProtocolFee(t *testing.T) {
	treasury := solana.NewWallet().PublicKey()

	nativePool := func() *PoolState {
		return &PoolState{
			FeeNumerator:     3,
			FeeDenominator:   1000,
			ProtocolTreasury: treasury,
			ProtocolFeeBps:   100, // 1%
			IsNativePool:     true,
			NativeReserve:    10_000,
		}
	}

	t.Run("Native Input Leg Reduces Vault Deposit", func(t *testing.T) {
		plan, err := Swap(nativePool(), &SwapRequest{
			ReserveIn:  10_000,
			ReserveOut: 10_000,
			AmountIn:   1000,
			NativeLeg:  NativeLegIn,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(906), plan.AmountOut)
		assert.Equal(t, uint64(10), plan.ProtocolFeeNative)
		// the trader's quote is untouched, the pool absorbs the fee on its own leg
		assert.Equal(t, uint64(990), plan.AmountToVault)
		assert.Equal(t, uint64(10_990), plan.UpdatedState.NativeReserve)
	})

	t.Run("Native Output Leg Reduces Trader Payout", func(t *testing.T) {
		plan, err := Swap(nativePool(), &SwapRequest{
			ReserveIn:        10_000,
			ReserveOut:       10_000,
			AmountIn:         1000,
			NativeLeg:        NativeLegOut,
			CustodyBalance:   12_000,
			ReservationFloor: 1000,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(9), plan.ProtocolFeeNative)
		assert.Equal(t, uint64(897), plan.AmountOut)
		assert.Equal(t, uint64(1000), plan.AmountToVault)
		assert.Equal(t, uint64(9094), plan.UpdatedState.NativeReserve)
	})

	t.Run("Payout Would Break Rent Floor", func(t *testing.T) {
		_, err := Swap(nativePool(), &SwapRequest{
			ReserveIn:        10_000,
			ReserveOut:       10_000,
			AmountIn:         1000,
			NativeLeg:        NativeLegOut,
			CustodyBalance:   1900,
			ReservationFloor: 1000,
		})
		assert.ErrorIs(t, err, ErrInsufficientRentReserve)
	})

	t.Run("Invalid Treasury Record Waives Fee", func(t *testing.T) {
		pool := &PoolState{
			FeeNumerator:     3,
			FeeDenominator:   1000,
			ProtocolTreasury: treasury,
			ProtocolFeeBps:   100,
		}
		plan, err := Swap(pool, &SwapRequest{
			ReserveIn:            10_000,
			ReserveOut:           10_000,
			AmountIn:             1000,
			NativeLeg:            NativeLegOut,
			TreasuryAccountValid: false,
		})
		require.NoError(t, err)
		assert.True(t, plan.FeeWaived)
		assert.Zero(t, plan.ProtocolFeeNative)
		assert.Equal(t, uint64(906), plan.AmountOut)
	})

	t.Run("No Treasury Configured Means No Fee", func(t *testing.T) {
		pool := nativePool()
		pool.ProtocolTreasury = solana.PublicKey{}
		plan, err := Swap(pool, &SwapRequest{
			ReserveIn:  10_000,
			ReserveOut: 10_000,
			AmountIn:   1000,
			NativeLeg:  NativeLegIn,
		})
		require.NoError(t, err)
		assert.Zero(t, plan.ProtocolFeeNative)
		assert.False(t, plan.FeeWaived)
		assert.Equal(t, uint64(1000), plan.AmountToVault)
	})
}

// The fee-adjusted product never decreases across a swap
func TestSwapInvariant(t *testing.T) {
	pool := feeOnlyPool()
	reserveIn, reserveOut := uint64(1_000_000), uint64(2_500_000)

	for _, amountIn := range []uint64{1, 99, 1000, 123_456, 999_999} {
		plan, err := Swap(pool, &SwapRequest{
			ReserveIn:  reserveIn,
			ReserveOut: reserveOut,
			AmountIn:   amountIn,
		})
		require.NoError(t, err)

		before := new(big.Int).Mul(
			new(big.Int).SetUint64(reserveIn),
			new(big.Int).SetUint64(reserveOut),
		)
		after := new(big.Int).Mul(
			new(big.Int).SetUint64(reserveIn+plan.AmountToVault),
			new(big.Int).SetUint64(reserveOut-plan.AmountOut),
		)
		assert.True(t, after.Cmp(before) >= 0, "product decreased for amountIn=%d", amountIn)

		reserveIn += plan.AmountToVault
		reserveOut -= plan.AmountOut
	}
}
