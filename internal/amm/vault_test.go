package amm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAllocator = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	testCustody   = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

func testProvisioner() *VaultProvisioner {
	return &VaultProvisioner{
		Allocator: testAllocator,
		Space:     165,
		Rent:      2_039_280,
	}
}

func TestVaultClassify(t *testing.T) {
	p := testProvisioner()
	addr := solana.NewWallet().PublicKey()

	cases := []struct {
		name string
		view AccountView
		want VaultState
	}{
		{"Absent", AccountView{Address: addr}, VaultAbsent},
		{"Funded But Unallocated", AccountView{Address: addr, Lamports: 1, Owner: testAllocator}, VaultAllocating},
		{"Allocated But Unassigned", AccountView{Address: addr, Lamports: 1, DataLen: 165, Owner: testAllocator}, VaultAssigning},
		{"Ready", AccountView{Address: addr, Lamports: 1, DataLen: 165, Owner: testCustody}, VaultReady},
		{"Foreign Owner", AccountView{Address: addr, Lamports: 1, DataLen: 165, Owner: solana.NewWallet().PublicKey()}, VaultForeign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Classify(tc.view, testCustody))
		})
	}
}

func TestVaultProvision(t *testing.T) {
	p := testProvisioner()
	vault := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()
	payer := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()
	signer := &DerivedSigner{Seed: []byte("vault0"), Pool: pool, Bump: 254}

	t.Run("From Absent Runs All Steps", func(t *testing.T) {
		view := AccountView{Address: vault}
		state, steps, err := p.Provision(view, testCustody, mint, authority, payer, signer)
		require.NoError(t, err)
		assert.Equal(t, VaultAbsent, state)
		require.Len(t, steps, 4)
		assert.Equal(t, StepFundRent, steps[0].Kind)
		assert.Equal(t, p.Rent, steps[0].Amount)
		assert.Equal(t, payer, steps[0].From)
		assert.Equal(t, StepAllocate, steps[1].Kind)
		assert.Equal(t, p.Space, steps[1].Space)
		assert.Equal(t, StepAssign, steps[2].Kind)
		assert.Equal(t, testCustody, steps[2].Program)
		assert.Equal(t, StepInitialize, steps[3].Kind)
		assert.Equal(t, mint, steps[3].Mint)
		assert.Equal(t, authority, steps[3].Authority)

		// every step carries the vault's own derived proof, never an external signer
		for _, step := range steps[1:] {
			assert.Equal(t, signer, step.Signer)
		}
	})

	t.Run("Resume After Interrupted Funding", func(t *testing.T) {
		view := AccountView{Address: vault, Lamports: p.Rent, Owner: testAllocator}
		state, steps, err := p.Provision(view, testCustody, mint, authority, payer, signer)
		require.NoError(t, err)
		assert.Equal(t, VaultAllocating, state)
		require.Len(t, steps, 3)
		assert.Equal(t, StepAllocate, steps[0].Kind)
	})

	t.Run("Resume After Interrupted Allocation", func(t *testing.T) {
		view := AccountView{Address: vault, Lamports: p.Rent, DataLen: p.Space, Owner: testAllocator}
		state, steps, err := p.Provision(view, testCustody, mint, authority, payer, signer)
		require.NoError(t, err)
		assert.Equal(t, VaultAssigning, state)
		require.Len(t, steps, 2)
		assert.Equal(t, StepAssign, steps[0].Kind)
		assert.Equal(t, StepInitialize, steps[1].Kind)
	})

	t.Run("Ready Is Idempotent", func(t *testing.T) {
		view := AccountView{Address: vault, Lamports: p.Rent, DataLen: p.Space, Owner: testCustody}
		state, steps, err := p.Provision(view, testCustody, mint, authority, payer, signer)
		require.NoError(t, err)
		assert.Equal(t, VaultReady, state)
		assert.Empty(t, steps)
	})

	t.Run("Foreign Owner Is Terminal", func(t *testing.T) {
		view := AccountView{Address: vault, Lamports: p.Rent, DataLen: p.Space, Owner: solana.NewWallet().PublicKey()}
		state, steps, err := p.Provision(view, testCustody, mint, authority, payer, signer)
		assert.ErrorIs(t, err, ErrInvalidTreasury)
		assert.Equal(t, VaultForeign, state)
		assert.Empty(t, steps)
	})
}
