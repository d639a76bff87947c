package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	t.Run("Drift Is Reported Not Rejected", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true, NativeReserve: 500}
		report, updated, err := Reconcile(pool, 580, 100)
		require.NoError(t, err)
		assert.Equal(t, uint64(500), report.OldReserve)
		assert.Equal(t, uint64(480), report.NewReserve)
		assert.Equal(t, int64(20), report.Drift)
		assert.True(t, report.HasDrift())
		assert.Equal(t, uint64(480), updated.NativeReserve)
	})

	t.Run("Overwrite Is Unconditional", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true, NativeReserve: 480}
		report, updated, err := Reconcile(pool, 580, 100)
		require.NoError(t, err)
		assert.False(t, report.HasDrift())
		assert.Equal(t, uint64(480), updated.NativeReserve)
	})

	t.Run("Balance Below Reservation Floor", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true, NativeReserve: 500}
		_, _, err := Reconcile(pool, 99, 100)
		assert.ErrorIs(t, err, ErrInsufficientRentReserve)
	})

	t.Run("Only For Native Pools", func(t *testing.T) {
		pool := &PoolState{}
		_, _, err := Reconcile(pool, 580, 100)
		assert.ErrorIs(t, err, ErrNotNativePool)
	})
}
