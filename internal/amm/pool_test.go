package amm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInitParams() PoolInitParams {
	return PoolInitParams{
		FeeNumerator:     3,
		FeeDenominator:   1000,
		ProtocolTreasury: solana.NewWallet().PublicKey(),
		ProtocolFeeBps:   25,
	}
}

func TestInitializePool(t *testing.T) {
	prov := testProvisioner()
	authority := solana.NewWallet().PublicKey()
	payer := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()

	newSetup := func(seed string) VaultSetup {
		return VaultSetup{
			View:   AccountView{Address: solana.NewWallet().PublicKey()},
			Mint:   solana.NewWallet().PublicKey(),
			Signer: &DerivedSigner{Seed: []byte(seed), Pool: pool, Bump: 255},
		}
	}

	t.Run("Fresh Pool Provisions Both Vaults", func(t *testing.T) {
		state, steps, err := InitializePool(testInitParams(), prov, testCustody, authority, payer, newSetup("vault0"), newSetup("vault1"))
		require.NoError(t, err)
		assert.Zero(t, state.TotalSharesMinted)
		assert.False(t, state.IsNativePool)
		assert.Equal(t, uint16(25), state.ProtocolFeeBps)
		// four provisioning steps per absent vault
		assert.Len(t, steps, 8)
	})

	t.Run("Recreation With Ready Vaults Is A Noop", func(t *testing.T) {
		ready := newSetup("vault0")
		ready.View.Lamports = prov.Rent
		ready.View.DataLen = prov.Space
		ready.View.Owner = testCustody
		ready2 := ready
		ready2.Signer = &DerivedSigner{Seed: []byte("vault1"), Pool: pool, Bump: 255}

		_, steps, err := InitializePool(testInitParams(), prov, testCustody, authority, payer, ready, ready2)
		require.NoError(t, err)
		assert.Empty(t, steps)
	})

	t.Run("Zero Fee Denominator", func(t *testing.T) {
		params := testInitParams()
		params.FeeDenominator = 0
		_, _, err := InitializePool(params, prov, testCustody, authority, payer, newSetup("vault0"), newSetup("vault1"))
		assert.ErrorIs(t, err, ErrInvalidProtocolFee)
	})

	t.Run("Bps Above Ten Thousand", func(t *testing.T) {
		params := testInitParams()
		params.ProtocolFeeBps = 10_001
		_, _, err := InitializePool(params, prov, testCustody, authority, payer, newSetup("vault0"), newSetup("vault1"))
		assert.ErrorIs(t, err, ErrInvalidProtocolFee)
	})

	t.Run("Foreign Vault Aborts Creation", func(t *testing.T) {
		foreign := newSetup("vault0")
		foreign.View.Lamports = 1
		foreign.View.DataLen = 1
		foreign.View.Owner = solana.NewWallet().PublicKey()
		_, _, err := InitializePool(testInitParams(), prov, testCustody, authority, payer, foreign, newSetup("vault1"))
		assert.ErrorIs(t, err, ErrInvalidTreasury)
	})
}

func TestInitializeNativePool(t *testing.T) {
	prov := testProvisioner()
	authority := solana.NewWallet().PublicKey()
	payer := solana.NewWallet().PublicKey()
	setup := VaultSetup{
		View:   AccountView{Address: solana.NewWallet().PublicKey()},
		Mint:   solana.NewWallet().PublicKey(),
		Signer: &DerivedSigner{Seed: []byte("vault"), Pool: solana.NewWallet().PublicKey(), Bump: 254},
	}

	t.Run("Only Token Side Needs A Vault", func(t *testing.T) {
		state, steps, err := InitializeNativePool(testInitParams(), prov, testCustody, authority, payer, 0, setup)
		require.NoError(t, err)
		assert.True(t, state.IsNativePool)
		assert.Zero(t, state.NativeReserve)
		assert.Len(t, steps, 4)
	})

	t.Run("Native Position Out Of Range", func(t *testing.T) {
		_, _, err := InitializeNativePool(testInitParams(), prov, testCustody, authority, payer, 2, setup)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestPauseNativePool(t *testing.T) {
	pool := &PoolState{IsNativePool: true}
	same, err := PauseNativePool(pool)
	require.NoError(t, err)
	assert.Equal(t, pool, same)

	_, err = PauseNativePool(&PoolState{})
	assert.ErrorIs(t, err, ErrNotNativePool)
}

func TestRecoverIdleNative(t *testing.T) {
	signer := &DerivedSigner{Seed: []byte("pool_pda"), Pool: solana.NewWallet().PublicKey(), Bump: 253}
	recipient := solana.NewWallet().PublicKey()
	custody := AccountView{Address: solana.NewWallet().PublicKey(), Lamports: 5000}

	t.Run("Sweeps Above The Floor When Supply Is Zero", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true, NativeReserve: 4000}
		steps, updated, err := RecoverIdleNative(pool, custody, 1000, recipient, signer)
		require.NoError(t, err)
		require.Len(t, steps, 1)
		assert.Equal(t, StepTransfer, steps[0].Kind)
		assert.Equal(t, uint64(4000), steps[0].Amount)
		assert.Equal(t, recipient, steps[0].Account)
		assert.Zero(t, updated.NativeReserve)
	})

	t.Run("Refuses While Shares Outstanding", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true, TotalSharesMinted: 1, NativeReserve: 4000}
		_, _, err := RecoverIdleNative(pool, custody, 1000, recipient, signer)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Nothing Above The Floor", func(t *testing.T) {
		pool := &PoolState{IsNativePool: true}
		_, _, err := RecoverIdleNative(pool, AccountView{Lamports: 900}, 1000, recipient, signer)
		assert.ErrorIs(t, err, ErrInsufficientRentReserve)
	})
}
