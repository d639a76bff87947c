package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeposit(t *testing.T) {
	t.Run("First Deposit Into Empty Pool", func(t *testing.T) {
		pool := &PoolState{FeeNumerator: 3, FeeDenominator: 1000}
		plan, err := Deposit(pool, 0, 0, 1000, 1000, 100, 50)
		require.NoError(t, err)
		assert.Equal(t, uint64(75), plan.ShareMint)
		assert.Equal(t, uint64(100), plan.Deposit0)
		assert.Equal(t, uint64(50), plan.Deposit1)
		assert.Equal(t, uint64(75), plan.UpdatedState.TotalSharesMinted)
	})

	t.Run("Subsequent Deposit Follows Pool Ratio", func(t *testing.T) {
		pool := &PoolState{TotalSharesMinted: 1000}
		plan, err := Deposit(pool, 1000, 2000, 5000, 5000, 100, 300)
		require.NoError(t, err)
		// ratio vb1/vb0 = 2, so the second leg takes 200 of the 300 offered
		assert.Equal(t, uint64(200), plan.Deposit1)
		assert.Equal(t, uint64(100), plan.ShareMint)
		assert.Equal(t, uint64(1100), plan.UpdatedState.TotalSharesMinted)
	})

	t.Run("User Balance Too Low", func(t *testing.T) {
		pool := &PoolState{}
		_, err := Deposit(pool, 0, 0, 50, 1000, 100, 50)
		assert.ErrorIs(t, err, ErrNotEnoughBalance)
	})

	t.Run("Second Leg Bound Doubles As Slippage Guard", func(t *testing.T) {
		pool := &PoolState{TotalSharesMinted: 1000}
		_, err := Deposit(pool, 1000, 2000, 5000, 5000, 100, 150)
		assert.ErrorIs(t, err, ErrNotEnoughBalance)
	})

	t.Run("Zero Share Mint Rejected", func(t *testing.T) {
		pool := &PoolState{TotalSharesMinted: 1000}
		_, err := Deposit(pool, 1000, 2000, 5000, 5000, 0, 0)
		assert.ErrorIs(t, err, ErrNoPoolMintOutput)
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("Pro Rata With Floor Division", func(t *testing.T) {
		pool := &PoolState{TotalSharesMinted: 1000}
		plan, err := Withdraw(pool, 333, 777, 100, 500)
		require.NoError(t, err)
		assert.Equal(t, uint64(33), plan.Amount0)
		assert.Equal(t, uint64(77), plan.Amount1)
		assert.Equal(t, uint64(900), plan.UpdatedState.TotalSharesMinted)
	})

	t.Run("Burn More Than Holder Balance", func(t *testing.T) {
		pool := &PoolState{TotalSharesMinted: 1000}
		_, err := Withdraw(pool, 333, 777, 600, 500)
		assert.ErrorIs(t, err, ErrNotEnoughBalance)
	})

	t.Run("Burn More Than Total Supply", func(t *testing.T) {
		pool := &PoolState{TotalSharesMinted: 1000}
		_, err := Withdraw(pool, 333, 777, 1001, 2000)
		assert.ErrorIs(t, err, ErrBurnTooMuch)
	})
}

// Total share supply always tracks the sum of mints minus burns
func TestShareSupplyConsistency(t *testing.T) {
	pool := &PoolState{FeeNumerator: 3, FeeDenominator: 1000}
	vb0, vb1 := uint64(0), uint64(0)
	var holders uint64

	plan, err := Deposit(pool, vb0, vb1, 100_000, 100_000, 10_000, 10_000)
	require.NoError(t, err)
	pool = plan.UpdatedState
	holders += plan.ShareMint
	vb0 += plan.Deposit0
	vb1 += plan.Deposit1
	assert.Equal(t, holders, pool.TotalSharesMinted)

	plan, err = Deposit(pool, vb0, vb1, 100_000, 100_000, 5000, 5000)
	require.NoError(t, err)
	pool = plan.UpdatedState
	holders += plan.ShareMint
	vb0 += plan.Deposit0
	vb1 += plan.Deposit1
	assert.Equal(t, holders, pool.TotalSharesMinted)

	wplan, err := Withdraw(pool, vb0, vb1, holders/3, holders)
	require.NoError(t, err)
	pool = wplan.UpdatedState
	holders -= holders / 3
	assert.Equal(t, holders, pool.TotalSharesMinted)
}

func TestDepositNative(t *testing.T) {
	t.Run("First Deposit Locks Minimum Liquidity", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true}
		plan, err := DepositNative(pool, 0, 10_000, 10_000, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(9000), plan.ShareMint)
		assert.Equal(t, uint64(10_000), plan.UpdatedState.NativeReserve)
		assert.Equal(t, uint64(9000), plan.UpdatedState.TotalSharesMinted)
	})

	t.Run("First Deposit Below Minimum Liquidity", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true}
		_, err := DepositNative(pool, 0, 100, 100, 0)
		assert.ErrorIs(t, err, ErrInsufficientLiquidity)
	})

	t.Run("Minimum Share Bound", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true}
		_, err := DepositNative(pool, 0, 10_000, 10_000, 9001)
		assert.ErrorIs(t, err, ErrSlippageExceeded)
	})

	t.Run("Subsequent Deposit Takes Smaller Ratio", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true, TotalSharesMinted: 9000, NativeReserve: 10_000}
		plan, err := DepositNative(pool, 10_000, 1000, 2000, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(900), plan.ShareMint)
		assert.Equal(t, uint64(11_000), plan.UpdatedState.NativeReserve)
		assert.Equal(t, uint64(9900), plan.UpdatedState.TotalSharesMinted)
	})

	t.Run("Rejects Non Native Pool", func(t *testing.T) {
		pool := &PoolState{}
		_, err := DepositNative(pool, 0, 100, 100, 0)
		assert.ErrorIs(t, err, ErrNotNativePool)
	})

	t.Run("Rejects Zero Amounts", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true}
		_, err := DepositNative(pool, 0, 0, 100, 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestWithdrawNative(t *testing.T) {
	t.Run("Pro Rata From Tracked Reserve", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true, TotalSharesMinted: 9900, NativeReserve: 11_000}
		plan, err := WithdrawNative(pool, 12_000, 900, 900)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), plan.Amount0)
		assert.Equal(t, uint64(1090), plan.Amount1)
		assert.Equal(t, uint64(10_000), plan.UpdatedState.NativeReserve)
		assert.Equal(t, uint64(9000), plan.UpdatedState.TotalSharesMinted)
	})

	t.Run("Burn Exceeds Supply", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true, TotalSharesMinted: 100, NativeReserve: 1000}
		_, err := WithdrawNative(pool, 1000, 101, 200)
		assert.ErrorIs(t, err, ErrBurnTooMuch)
	})

	t.Run("Empty Pool", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true}
		_, err := WithdrawNative(pool, 0, 1, 1)
		assert.ErrorIs(t, err, ErrInsufficientLiquidity)
	})
}
